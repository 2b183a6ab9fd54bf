// Package game defines the match state of the referee box and the contract
// of the actions that change it.
package game

import (
	"github.com/ahasselbring/GameController-HL/timer"
)

// Game is the complete state of a match. It is only changed by actions.
type Game struct {
	Sides              SideMapping    `json:"sides"`
	Phase              Phase          `json:"phase"`
	State              State          `json:"state"`
	SecState           SecondaryState `json:"secState"`
	SetPlay            SetPlay        `json:"setPlay"`
	KickingSide        OptionalSide   `json:"kickingSide"`
	PrimaryTimer       Timer          `json:"primaryTimer"`
	SecondaryTimer     Timer          `json:"secondaryTimer"`
	TimeoutRewindTimer Timer          `json:"timeoutRewindTimer"`
	Teams              Teams          `json:"teams"`
}

// NewGame creates the state of a match that is about to start.
func NewGame(p *Params) *Game {
	g := &Game{
		Sides:       p.Game.SideMapping,
		Phase:       FirstHalf,
		State:       Initial,
		SetPlay:     NoSetPlay,
		KickingSide: SomeSide(p.Game.KickOffSide),
		PrimaryTimer: timer.Started(
			p.Competition.HalfDuration,
			timer.Playing,
			timer.Overflow[VAction](),
		),
	}

	g.Teams.ForEach(func(_ Side, team *Team) {
		team.TimeoutBudget = p.Competition.TimeoutsPerTeam
		team.Players = make([]Player, p.Competition.RosterSize)

		for i := range team.Players {
			if i >= p.Competition.PlayersPerTeam {
				team.Players[i].Penalty = Substitute
			}
		}
	})

	return g
}

// Satisfies tells if a timer with the given run condition counts down in the
// current state.
func (g *Game) Satisfies(c timer.RunCondition) bool {
	switch c {
	case timer.Always:
		return true
	case timer.Playing:
		return g.State == Playing
	default:
		return false
	}
}

// Timers lists every timer of the match: the primary, secondary and timeout
// rewind clocks, followed by the penalty timers of the home players and then
// of the away players.
func (g *Game) Timers() []*Timer {
	timers := []*Timer{
		&g.PrimaryTimer,
		&g.SecondaryTimer,
		&g.TimeoutRewindTimer,
	}

	g.Teams.ForEachPlayer(func(_ Side, _ PlayerNumber, p *Player) {
		timers = append(timers, &p.PenaltyTimer)
	})

	return timers
}

// Clone returns a deep copy of the match state.
func (g *Game) Clone() *Game {
	c := *g

	for s := range c.Teams {
		players := make([]Player, len(g.Teams[s].Players))
		copy(players, g.Teams[s].Players)
		c.Teams[s].Players = players
	}

	return &c
}

var _ timer.Conditioner = (*Game)(nil)
