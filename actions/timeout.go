package actions

import (
	"time"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/timer"
)

// Timeout is taken by a team, or by the referee if Side is absent.
type Timeout struct {
	Side game.OptionalSide `json:"side"`
}

// IsLegal checks whether the timeout can be taken now.
//
// A referee timeout is always legal. A team cannot take a timeout while the
// ball is in play. Otherwise it needs budget left, unless its own timeout is
// running, in which case calling again ends it.
func (a Timeout) IsLegal(c *game.Context) bool {
	side, isTeam := a.Side.Get()
	if !isTeam {
		return true
	}

	if c.Game.State == game.Playing {
		return false
	}

	sec := c.Game.SecState

	switch sec.State {
	case game.SecNormal:
		return c.Game.Teams[side].TimeoutBudget > 0
	case game.SecTimeout:
		return sec.Side == side
	default:
		return false
	}
}

// Execute applies the timeout according to the rules of the league.
func (a Timeout) Execute(c *game.Context) {
	if c.Params.Competition.League.IsSPL() {
		a.executeRewinding(c)
		return
	}

	if side, isTeam := a.Side.Get(); isTeam {
		a.executeTeamOverlap(c, side)
		return
	}

	a.executeRefereeOverlap(c)
}

func (a Timeout) duration(c *game.Context) time.Duration {
	if a.Side.IsSome() {
		return c.Params.Competition.TimeoutDuration
	}

	return c.Params.Competition.RefereeTimeoutDuration
}

// executeRewinding implements the rules of leagues whose match clock is
// rewound to the start of the stoppage that led to the timeout.
func (a Timeout) executeRewinding(c *game.Context) {
	g := c.Game

	g.Teams.ForEachPlayer(func(_ game.Side, _ game.PlayerNumber, p *game.Player) {
		p.PenaltyTimer = timer.Stopped[game.VAction]()
	})

	if g.Phase != game.PenaltyShootout {
		if side, isTeam := a.Side.Get(); isTeam {
			g.KickingSide = game.SomeSide(side.Negate())
		}

		// The rewind timer overflows from zero, so its remaining time is
		// minus the time passed since the stoppage started.
		g.PrimaryTimer = timer.Started(
			g.PrimaryTimer.Remaining()-g.TimeoutRewindTimer.Remaining(),
			timer.Playing,
			timer.Overflow[game.VAction](),
		)
		g.TimeoutRewindTimer = timer.Stopped[game.VAction]()
	}

	// Extending a running timeout keeps the timeouts from queueing up
	// behind each other.
	remaining := a.duration(c)
	if g.State == game.Timeout ||
		(g.State == game.Initial && g.Phase == game.SecondHalf) {
		remaining += g.SecondaryTimer.Remaining()
	}

	g.SecondaryTimer = timer.Started(
		remaining,
		timer.Always,
		timer.Overflow[game.VAction](),
	)
	g.State = game.Timeout
	g.SetPlay = game.NoSetPlay

	if side, isTeam := a.Side.Get(); isTeam {
		g.Teams[side].TimeoutBudget--
	}
}

// executeTeamOverlap starts a team timeout in the overlap sub-state, or ends
// the running one.
func (a Timeout) executeTeamOverlap(c *game.Context, side game.Side) {
	g := c.Game

	if g.SecState.State == game.SecTimeout {
		a.cancelOverlap(c)
		return
	}

	if g.Teams[side].TimeoutBudget <= 0 {
		return
	}

	a.startOverlap(c, StateShifter{State: g.State})
	g.SecState.Side = side
	g.Teams[side].TimeoutBudget--
}

// executeRefereeOverlap starts a referee timeout in the overlap sub-state, or
// ends the running one. A referee timeout always resumes in Ready.
func (a Timeout) executeRefereeOverlap(c *game.Context) {
	if c.Game.SecState.State == game.SecTimeout {
		a.cancelOverlap(c)
		return
	}

	a.startOverlap(c, StateShifter{State: game.Ready})
}

func (a Timeout) startOverlap(c *game.Context, restore StateShifter) {
	g := c.Game

	g.SecondaryTimer = timer.Started(
		a.duration(c),
		timer.Always,
		timer.Expire(game.VAction{Action: restore}),
	)
	g.SecState.State = game.SecTimeout
	g.State = game.Initial
}

func (a Timeout) cancelOverlap(c *game.Context) {
	c.Enqueue(c.Game.SecondaryTimer.ToZero()...)
	c.Game.SecState.State = game.SecNormal
}
