package controller

import (
	"fmt"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

// HookPosBeforeAction marks an action that is about to execute.
var HookPosBeforeAction = &hooking.HookPos{Name: "BeforeAction"}

// HookPosAfterAction marks an action that has just executed.
var HookPosAfterAction = &hooking.HookPos{Name: "AfterAction"}

// HookPosActionRejected marks an action that was not legal and did not
// execute.
var HookPosActionRejected = &hooking.HookPos{Name: "ActionRejected"}

// HookPosTick marks the end of a tick, after the cascade it triggered.
var HookPosTick = &hooking.HookPos{Name: "Tick"}

// ActionSource tells who issued an action.
type ActionSource int

// The sources of actions.
const (
	// SourceUser actions are issued from outside the controller.
	SourceUser ActionSource = iota

	// SourceTimer actions are released by a clock reaching zero.
	SourceTimer
)

var actionSourceNames = []string{"user", "timer"}

func (s ActionSource) String() string {
	if s < 0 || int(s) >= len(actionSourceNames) {
		return fmt.Sprintf("ActionSource(%d)", int(s))
	}

	return actionSourceNames[s]
}

// MarshalText encodes the source by name.
func (s ActionSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Detail is attached to every hook the controller invokes.
//
// Game is the live match state. Hooks run while the controller is locked, so
// they must neither modify it nor call back into the controller.
type Detail struct {
	Source ActionSource
	Game   *game.Game
}
