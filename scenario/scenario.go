// Package scenario describes a match as data: the state it starts from and
// the actions the referee issues at given points in time.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/timer"
	"github.com/ahasselbring/GameController-HL/timing"
)

// Scenario is a scripted match.
type Scenario struct {
	Initial Initial `yaml:"initial"`
	Events  []Event `yaml:"events"`

	// Until is the virtual time the replay runs to. Zero means until the
	// last event.
	Until time.Duration `yaml:"until"`
}

// Initial overrides parts of the state of a fresh match. Missing values keep
// what the match starts with.
type Initial struct {
	Phase            *game.Phase          `yaml:"phase"`
	State            *game.State          `yaml:"state"`
	SecState         *game.SecondaryState `yaml:"secState"`
	KickingSide      *game.OptionalSide   `yaml:"kickingSide"`
	Sides            *game.SideMapping    `yaml:"sides"`
	PrimaryRemaining *time.Duration       `yaml:"primaryRemaining"`
	Teams            struct {
		Home *TeamState `yaml:"home"`
		Away *TeamState `yaml:"away"`
	} `yaml:"teams"`
}

// TeamState overrides parts of a team.
type TeamState struct {
	Score         *int               `yaml:"score"`
	PenaltyShot   *int               `yaml:"penaltyShot"`
	TimeoutBudget *int               `yaml:"timeoutBudget"`
	Goalkeeper    *game.PlayerNumber `yaml:"goalkeeper"`
}

// validate rejects counters the match can never reach.
func (t *TeamState) validate(side game.Side) error {
	if t == nil {
		return nil
	}

	counters := []struct {
		name  string
		value *int
	}{
		{"score", t.Score},
		{"penaltyShot", t.PenaltyShot},
		{"timeoutBudget", t.TimeoutBudget},
	}

	for _, c := range counters {
		if c.value != nil && *c.value < 0 {
			return fmt.Errorf("negative %s of %s team: %d", c.name, side, *c.value)
		}
	}

	if t.Goalkeeper != nil && *t.Goalkeeper < game.NoGoalkeeper {
		return fmt.Errorf("negative goalkeeper of %s team: %d", side, *t.Goalkeeper)
	}

	return nil
}

// Event is an action issued at a time relative to the start of the replay.
type Event struct {
	At     time.Duration
	Action game.Action
}

type eventYAML struct {
	At     time.Duration  `yaml:"at"`
	Action map[string]any `yaml:"action"`
}

// UnmarshalYAML decodes {at, action: {type, args}}. The action goes through
// the same tagged decoding as every other action carried as data.
func (e *Event) UnmarshalYAML(node *yaml.Node) error {
	var raw eventYAML

	err := node.Decode(&raw)
	if err != nil {
		return err
	}

	if raw.At < 0 {
		return fmt.Errorf("line %d: negative event time %s", node.Line, raw.At)
	}

	if raw.Action == nil {
		return fmt.Errorf("line %d: event without action", node.Line)
	}

	data, err := json.Marshal(raw.Action)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	a, err := game.ParseAction(data)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	e.At = raw.At
	e.Action = a

	return nil
}

// MarshalYAML encodes the event in the form UnmarshalYAML reads.
func (e Event) MarshalYAML() (any, error) {
	data, err := json.Marshal(game.VAction{Action: e.Action})
	if err != nil {
		return nil, err
	}

	var action map[string]any

	err = json.Unmarshal(data, &action)
	if err != nil {
		return nil, err
	}

	return eventYAML{At: e.At, Action: action}, nil
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}

	return s, nil
}

// Decode reads a scenario from r. Unknown fields are rejected and the events
// are sorted by time, keeping the file order for equal times.
func Decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Scenario{}

	err := dec.Decode(s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].At < s.Events[j].At
	})

	if s.Until < 0 {
		return nil, fmt.Errorf("negative until %s", s.Until)
	}

	err = s.Initial.Teams.Home.validate(game.Home)
	if err != nil {
		return nil, err
	}

	err = s.Initial.Teams.Away.validate(game.Away)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// End returns the virtual time the replay runs to.
func (s *Scenario) End() time.Duration {
	if s.Until > 0 {
		return s.Until
	}

	if len(s.Events) == 0 {
		return 0
	}

	return s.Events[len(s.Events)-1].At
}

// Apply writes the initial overrides into g.
func (s *Scenario) Apply(g *game.Game) {
	ini := s.Initial

	if ini.Phase != nil {
		g.Phase = *ini.Phase
	}

	if ini.State != nil {
		g.State = *ini.State
	}

	if ini.SecState != nil {
		g.SecState = *ini.SecState
	}

	if ini.KickingSide != nil {
		g.KickingSide = *ini.KickingSide
	}

	if ini.Sides != nil {
		g.Sides = *ini.Sides
	}

	if ini.PrimaryRemaining != nil {
		g.PrimaryTimer = timer.Started(
			*ini.PrimaryRemaining,
			timer.Playing,
			timer.Overflow[game.VAction](),
		)
	}

	ini.Teams.Home.apply(&g.Teams[game.Home])
	ini.Teams.Away.apply(&g.Teams[game.Away])
}

func (t *TeamState) apply(team *game.Team) {
	if t == nil {
		return
	}

	if t.Score != nil {
		team.Score = *t.Score
	}

	if t.PenaltyShot != nil {
		team.PenaltyShot = *t.PenaltyShot
	}

	if t.TimeoutBudget != nil {
		team.TimeoutBudget = *t.TimeoutBudget
	}

	if t.Goalkeeper != nil {
		team.Goalkeeper = *t.Goalkeeper
	}
}

// Schedule puts every event on the engine's timeline, relative to the
// engine's current time.
func (s *Scenario) Schedule(engine timing.ActionScheduler) {
	start := engine.CurrentTime()

	for _, e := range s.Events {
		engine.Schedule(timing.ScheduledEvent{
			Time:   start + e.At,
			Action: e.Action,
		})
	}
}
