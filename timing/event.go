// Package timing replays actions on a virtual clock. Between two actions the
// controller is ticked in fixed steps, so a replay sees the same clock
// releases a live match would.
package timing

import (
	"time"

	"github.com/ahasselbring/GameController-HL/game"
)

// Dispatcher is the part of the controller the engine drives.
type Dispatcher interface {
	Apply(a game.Action) error
	Tick(dt time.Duration)
}

// TimeTeller exposes the current virtual time.
type TimeTeller interface {
	CurrentTime() time.Duration
}

// ActionScheduler schedules actions on the virtual timeline.
type ActionScheduler interface {
	TimeTeller
	Schedule(evt ScheduledEvent)
}

// ScheduledEvent is an action to be applied at a point in virtual time.
// Events at the same time are applied in the order they were scheduled.
type ScheduledEvent struct {
	Time   time.Duration
	Action game.Action

	seq uint64
}
