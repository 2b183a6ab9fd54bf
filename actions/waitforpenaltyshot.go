package actions

import (
	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/timer"
)

// WaitForPenaltyShot is the referee call "Set" in a penalty shoot-out.
type WaitForPenaltyShot struct{}

// IsLegal checks that the match is in a penalty shoot-out that still needs
// another shot.
func (a WaitForPenaltyShot) IsLegal(c *game.Context) bool {
	if c.Game.Phase != game.PenaltyShootout {
		return false
	}

	switch c.Game.State {
	case game.Initial, game.Timeout:
		return true
	case game.Finished:
		side, ok := c.Game.KickingSide.Get()
		return ok && shootoutContinues(c, side)
	default:
		return false
	}
}

// shootoutContinues tells whether the team after side gets another shot.
// side is the team that has just finished its shot.
func shootoutContinues(c *game.Context, side game.Side) bool {
	comp := c.Params.Competition
	last := &c.Game.Teams[side]
	next := &c.Game.Teams[side.Negate()]
	diff := last.Score - next.Score

	if next.PenaltyShot < comp.PenaltyShots {
		// Regular shoot-out: continue while both teams can still draw level.
		// The next team has at least one shot left, the last team may have
		// none.
		remainingForNext := comp.PenaltyShots - next.PenaltyShot
		remainingForLast := comp.PenaltyShots - last.PenaltyShot

		return diff <= remainingForNext && -diff <= remainingForLast
	}

	if next.PenaltyShot < comp.PenaltyShots+comp.SuddenDeathPenaltyShots {
		// Sudden death: after the away team's shot there is always another
		// one, after the home team's shot only while the score is level.
		// Other criteria to end the match are up to the referee.
		return side == game.Away || diff == 0
	}

	return false
}

// Execute prepares the next shot. Coming from a finished shot, all players
// become substitutes and the sides swap, so the other team kicks.
func (a WaitForPenaltyShot) Execute(c *game.Context) {
	g := c.Game

	if g.State == game.Finished {
		g.Teams.ForEach(func(_ game.Side, team *game.Team) {
			team.Goalkeeper = game.NoGoalkeeper

			for i := range team.Players {
				team.Players[i].Penalty = game.Substitute
				team.Players[i].PenaltyTimer = timer.Stopped[game.VAction]()
			}
		})

		g.Sides = g.Sides.Negate()
		g.KickingSide = g.KickingSide.Negate()
	}

	g.State = game.Set
	g.PrimaryTimer = timer.Started(
		c.Params.Competition.PenaltyShotDuration,
		timer.Playing,
		timer.Overflow[game.VAction](),
	)
	// A timeout before the shot may have left the secondary clock running.
	g.SecondaryTimer = timer.Stopped[game.VAction]()

	if side, ok := g.KickingSide.Get(); ok {
		g.Teams[side].PenaltyShot++
	}
}
