// Package timer provides countdown clocks whose behavior at zero is described
// by data. A timer knows nothing about match rules: what it means for a timer
// to run is decided by a Conditioner, and the actions released at zero are
// handed back to the caller.
package timer

import (
	"encoding/json"
	"fmt"
	"time"
)

// RunCondition selects when a started timer counts down.
type RunCondition int

// The supported run conditions.
const (
	// Always timers count down on every tick.
	Always RunCondition = iota

	// Playing timers only count down while the match is being played.
	Playing
)

var runConditionNames = []string{"always", "playing"}

func (c RunCondition) String() string {
	if c < 0 || int(c) >= len(runConditionNames) {
		return fmt.Sprintf("RunCondition(%d)", int(c))
	}

	return runConditionNames[c]
}

// MarshalText encodes the run condition by name.
func (c RunCondition) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(runConditionNames) {
		return nil, fmt.Errorf("timer: invalid run condition %d", int(c))
	}

	return []byte(runConditionNames[c]), nil
}

// UnmarshalText decodes a run condition from its name.
func (c *RunCondition) UnmarshalText(text []byte) error {
	for i, name := range runConditionNames {
		if name == string(text) {
			*c = RunCondition(i)
			return nil
		}
	}

	return fmt.Errorf("timer: unknown run condition %q", string(text))
}

// A Conditioner tells whether a run condition currently holds.
type Conditioner interface {
	Satisfies(c RunCondition) bool
}

// BehaviorAtZero determines what happens when a timer reaches zero.
type BehaviorAtZero[A any] struct {
	expire  bool
	actions []A
}

// Overflow returns the behavior that keeps the timer running into negative
// time. Nothing is triggered.
func Overflow[A any]() BehaviorAtZero[A] {
	return BehaviorAtZero[A]{}
}

// Expire returns the behavior that stops the timer and releases the given
// actions, in order, when it reaches zero.
func Expire[A any](actions ...A) BehaviorAtZero[A] {
	return BehaviorAtZero[A]{expire: true, actions: actions}
}

// IsExpire tells if the behavior stops the timer at zero.
func (b BehaviorAtZero[A]) IsExpire() bool {
	return b.expire
}

// Actions returns the actions released at zero. It is empty for Overflow.
func (b BehaviorAtZero[A]) Actions() []A {
	return b.actions
}

// Timer is either stopped or started. The zero value is a stopped timer.
type Timer[A any] struct {
	started        bool
	remaining      time.Duration
	runCondition   RunCondition
	behaviorAtZero BehaviorAtZero[A]
}

// Stopped returns a stopped timer.
func Stopped[A any]() Timer[A] {
	return Timer[A]{}
}

// Started returns a running timer.
func Started[A any](
	remaining time.Duration,
	runCondition RunCondition,
	behaviorAtZero BehaviorAtZero[A],
) Timer[A] {
	return Timer[A]{
		started:        true,
		remaining:      remaining,
		runCondition:   runCondition,
		behaviorAtZero: behaviorAtZero,
	}
}

// IsStarted tells if the timer is running.
func (t Timer[A]) IsStarted() bool {
	return t.started
}

// Remaining returns the remaining time. A negative value is the time passed
// since an overflowing timer reached zero. Stopped timers return zero.
func (t Timer[A]) Remaining() time.Duration {
	if !t.started {
		return 0
	}

	return t.remaining
}

// RunCondition returns the run condition of a started timer.
func (t Timer[A]) RunCondition() RunCondition {
	return t.runCondition
}

// BehaviorAtZero returns the behavior of a started timer.
func (t Timer[A]) BehaviorAtZero() BehaviorAtZero[A] {
	return t.behaviorAtZero
}

// Tick advances the timer by dt if it is started and its run condition is
// satisfied. If the timer expires, it stops and the actions it carried are
// returned. The caller must execute them before the tick is considered
// complete.
func (t *Timer[A]) Tick(dt time.Duration, cond Conditioner) []A {
	if !t.started || !cond.Satisfies(t.runCondition) {
		return nil
	}

	t.remaining -= dt

	if t.remaining > 0 {
		return nil
	}

	return t.reachZero()
}

// ToZero collapses a started timer to zero and applies its zero behavior
// right away. Stopped timers are not affected.
func (t *Timer[A]) ToZero() []A {
	if !t.started {
		return nil
	}

	t.remaining = 0

	return t.reachZero()
}

func (t *Timer[A]) reachZero() []A {
	if !t.behaviorAtZero.expire {
		return nil
	}

	actions := t.behaviorAtZero.actions
	*t = Timer[A]{}

	return actions
}

type behaviorJSON[A any] struct {
	Type    string `json:"type"`
	Actions []A    `json:"actions,omitempty"`
}

type timerJSON[A any] struct {
	Remaining      int64           `json:"remaining"`
	RunCondition   RunCondition    `json:"runCondition"`
	BehaviorAtZero behaviorJSON[A] `json:"behaviorAtZero"`
}

// MarshalJSON encodes a stopped timer as null and a started timer with its
// remaining time in milliseconds.
func (t Timer[A]) MarshalJSON() ([]byte, error) {
	if !t.started {
		return []byte("null"), nil
	}

	b := behaviorJSON[A]{Type: "overflow"}
	if t.behaviorAtZero.expire {
		b.Type = "expire"
		b.Actions = t.behaviorAtZero.actions
	}

	return json.Marshal(timerJSON[A]{
		Remaining:      t.remaining.Milliseconds(),
		RunCondition:   t.runCondition,
		BehaviorAtZero: b,
	})
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (t *Timer[A]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timer[A]{}
		return nil
	}

	var v timerJSON[A]

	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}

	var b BehaviorAtZero[A]

	switch v.BehaviorAtZero.Type {
	case "overflow":
		b = Overflow[A]()
	case "expire":
		b = Expire(v.BehaviorAtZero.Actions...)
	default:
		return fmt.Errorf(
			"timer: unknown behavior at zero %q", v.BehaviorAtZero.Type)
	}

	*t = Started(
		time.Duration(v.Remaining)*time.Millisecond, v.RunCondition, b)

	return nil
}
