// Package actions implements the referee and automatic events of the match.
package actions

import "github.com/ahasselbring/GameController-HL/game"

// The kinds under which the actions are carried as tagged data.
const (
	KindTimeout            = "timeout"
	KindWaitForPenaltyShot = "waitForPenaltyShot"
	KindStateShifter       = "stateShifter"
)

func init() {
	game.RegisterAction(KindTimeout, Timeout{})
	game.RegisterAction(KindWaitForPenaltyShot, WaitForPenaltyShot{})
	game.RegisterAction(KindStateShifter, StateShifter{})
}

// Candidates returns every action an operator can issue at any time. The
// dispatcher filters them by legality.
func Candidates() []game.Action {
	return []game.Action{
		Timeout{Side: game.SomeSide(game.Home)},
		Timeout{Side: game.SomeSide(game.Away)},
		Timeout{Side: game.NoSide},
		WaitForPenaltyShot{},
	}
}
