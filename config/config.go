// Package config loads the parameters of a match and of the tooling around
// it. Values come from a YAML file, optionally overridden by GC_* environment
// variables, which may in turn be read from .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ahasselbring/GameController-HL/datarecording"
	"github.com/ahasselbring/GameController-HL/game"
)

// EnvPrefix is the prefix of every environment variable the loader reads.
const EnvPrefix = "GC_"

// ErrInvalidParams is returned when loaded values violate a constraint.
var ErrInvalidParams = errors.New("invalid params")

// maxDuration bounds every duration so that it converts into the clocks
// without loss.
const maxDuration = 24 * time.Hour

// Competition are the rule parameters shared by all matches of a
// competition.
type Competition struct {
	League                  game.League   `yaml:"league" env:"LEAGUE"`
	HalfDuration            time.Duration `yaml:"halfDuration" env:"HALF_DURATION"`
	TimeoutDuration         time.Duration `yaml:"timeoutDuration" env:"TIMEOUT_DURATION"`
	RefereeTimeoutDuration  time.Duration `yaml:"refereeTimeoutDuration" env:"REFEREE_TIMEOUT_DURATION"`
	PenaltyShotDuration     time.Duration `yaml:"penaltyShotDuration" env:"PENALTY_SHOT_DURATION"`
	PenaltyShots            int           `yaml:"penaltyShots" env:"PENALTY_SHOTS"`
	SuddenDeathPenaltyShots int           `yaml:"suddenDeathPenaltyShots" env:"SUDDEN_DEATH_PENALTY_SHOTS"`
	TimeoutsPerTeam         int           `yaml:"timeoutsPerTeam" env:"TIMEOUTS_PER_TEAM"`
	PlayersPerTeam          int           `yaml:"playersPerTeam" env:"PLAYERS_PER_TEAM"`
	RosterSize              int           `yaml:"rosterSize" env:"ROSTER_SIZE"`
}

// Match are the parameters of one match.
type Match struct {
	KickOffSide game.Side        `yaml:"kickOffSide" env:"KICK_OFF_SIDE"`
	SideMapping game.SideMapping `yaml:"sideMapping" env:"SIDE_MAPPING"`
}

// Monitor configures the inspection server.
type Monitor struct {
	Port        int  `yaml:"port" env:"PORT"`
	OpenBrowser bool `yaml:"openBrowser" env:"OPEN_BROWSER"`
}

// Config is everything a run of the game controller is configured with.
type Config struct {
	Competition Competition `yaml:"competition" envPrefix:"COMPETITION_"`
	Game        Match       `yaml:"game" envPrefix:"GAME_"`

	// TickPeriod is the step in which replays advance the clocks.
	TickPeriod time.Duration `yaml:"tickPeriod" env:"TICK_PERIOD"`

	// MaxCascade bounds the actions a single dispatch may execute.
	MaxCascade int `yaml:"maxCascade" env:"MAX_CASCADE"`

	Trace   datarecording.RecorderConfig `yaml:"trace" envPrefix:"TRACE_"`
	Monitor Monitor                      `yaml:"monitor" envPrefix:"MONITOR_"`
}

// Default returns the built-in configuration of a humanoid kid-size match.
func Default() Config {
	return Config{
		Competition: Competition{
			League:                  game.HumanoidKid,
			HalfDuration:            10 * time.Minute,
			TimeoutDuration:         5 * time.Minute,
			RefereeTimeoutDuration:  10 * time.Minute,
			PenaltyShotDuration:     time.Minute,
			PenaltyShots:            5,
			SuddenDeathPenaltyShots: 5,
			TimeoutsPerTeam:         1,
			PlayersPerTeam:          4,
			RosterSize:              6,
		},
		Game: Match{
			KickOffSide: game.Home,
			SideMapping: game.HomeDefendsLeftGoal,
		},
		TickPeriod: 10 * time.Millisecond,
		MaxCascade: 64,
		Trace: datarecording.RecorderConfig{
			Type: "sqlite",
		},
		Monitor: Monitor{
			Port: 0,
		},
	}
}

// Load builds the configuration. The defaults are overridden by the YAML
// file at path, if path is not empty, and then by the environment. The
// envFiles are loaded into the environment first; variables that are
// already set win. The result is validated.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if len(envFiles) > 0 {
		err := godotenv.Load(envFiles...)
		if err != nil {
			return Config{}, fmt.Errorf("config: load env files: %w", err)
		}
	}

	if path != "" {
		err := cfg.decodeFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	err = dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	return nil
}

// Validate checks every constraint and reports all violations at once.
func (c Config) Validate() error {
	var errs []error

	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format,
			append([]any{ErrInvalidParams}, args...)...))
	}

	comp := c.Competition

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"competition.halfDuration", comp.HalfDuration},
		{"competition.timeoutDuration", comp.TimeoutDuration},
		{"competition.refereeTimeoutDuration", comp.RefereeTimeoutDuration},
		{"competition.penaltyShotDuration", comp.PenaltyShotDuration},
		{"tickPeriod", c.TickPeriod},
	}

	for _, d := range durations {
		switch {
		case d.value <= 0:
			invalid("%s must be positive, got %s", d.name, d.value)
		case d.value > maxDuration:
			invalid("%s must not exceed %s, got %s", d.name, maxDuration, d.value)
		}
	}

	if comp.PenaltyShots <= 0 {
		invalid("competition.penaltyShots must be positive, got %d",
			comp.PenaltyShots)
	}

	if comp.SuddenDeathPenaltyShots < 0 {
		invalid("competition.suddenDeathPenaltyShots must not be negative, got %d",
			comp.SuddenDeathPenaltyShots)
	}

	if comp.TimeoutsPerTeam < 0 {
		invalid("competition.timeoutsPerTeam must not be negative, got %d",
			comp.TimeoutsPerTeam)
	}

	if comp.PlayersPerTeam <= 0 {
		invalid("competition.playersPerTeam must be positive, got %d",
			comp.PlayersPerTeam)
	}

	if comp.RosterSize < comp.PlayersPerTeam {
		invalid("competition.rosterSize %d is smaller than playersPerTeam %d",
			comp.RosterSize, comp.PlayersPerTeam)
	}

	if c.MaxCascade <= 0 {
		invalid("maxCascade must be positive, got %d", c.MaxCascade)
	}

	if c.Monitor.Port < 0 || c.Monitor.Port > 65535 {
		invalid("monitor.port %d is out of range", c.Monitor.Port)
	}

	return errors.Join(errs...)
}

// Params returns the match parameters.
func (c Config) Params() *game.Params {
	comp := c.Competition

	return &game.Params{
		Competition: game.Competition{
			League:                  comp.League,
			HalfDuration:            comp.HalfDuration,
			TimeoutDuration:         comp.TimeoutDuration,
			RefereeTimeoutDuration:  comp.RefereeTimeoutDuration,
			PenaltyShotDuration:     comp.PenaltyShotDuration,
			PenaltyShots:            comp.PenaltyShots,
			SuddenDeathPenaltyShots: comp.SuddenDeathPenaltyShots,
			TimeoutsPerTeam:         comp.TimeoutsPerTeam,
			PlayersPerTeam:          comp.PlayersPerTeam,
			RosterSize:              comp.RosterSize,
		},
		Game: game.MatchParams{
			KickOffSide: c.Game.KickOffSide,
			SideMapping: c.Game.SideMapping,
		},
	}
}
