package game

import "time"

// Competition holds the rule parameters of a competition.
type Competition struct {
	League                  League        `json:"league"`
	HalfDuration            time.Duration `json:"halfDuration"`
	TimeoutDuration         time.Duration `json:"timeoutDuration"`
	RefereeTimeoutDuration  time.Duration `json:"refereeTimeoutDuration"`
	PenaltyShotDuration     time.Duration `json:"penaltyShotDuration"`
	PenaltyShots            int           `json:"penaltyShots"`
	SuddenDeathPenaltyShots int           `json:"suddenDeathPenaltyShots"`
	TimeoutsPerTeam         int           `json:"timeoutsPerTeam"`
	PlayersPerTeam          int           `json:"playersPerTeam"`
	RosterSize              int           `json:"rosterSize"`
}

// MatchParams holds the parameters of a single match.
type MatchParams struct {
	KickOffSide Side        `json:"kickOffSide"`
	SideMapping SideMapping `json:"sideMapping"`
}

// Params is the read-only configuration of a match. It is validated before
// any match state is created and never changes afterwards.
type Params struct {
	Competition Competition `json:"competition"`
	Game        MatchParams `json:"game"`
}
