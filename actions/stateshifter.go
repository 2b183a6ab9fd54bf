package actions

import "github.com/ahasselbring/GameController-HL/game"

// StateShifter ends an overlapping timeout and puts the match back into the
// given primary state. It is released by the secondary clock.
type StateShifter struct {
	State game.State `json:"state"`
}

// IsLegal always returns true.
func (a StateShifter) IsLegal(_ *game.Context) bool {
	return true
}

// Execute restores the primary state.
func (a StateShifter) Execute(c *game.Context) {
	c.Game.State = a.State

	if c.Game.SecState.State == game.SecTimeout {
		c.Game.SecState.State = game.SecNormal
	}
}
