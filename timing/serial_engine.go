package timing

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/ahasselbring/GameController-HL/controller"
	"github.com/ahasselbring/GameController-HL/hooking"
)

// DefaultTickPeriod is the tick step of a live referee box.
const DefaultTickPeriod = 10 * time.Millisecond

// HookPosBeforeEvent marks an event that is about to be applied.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent marks an event that has been applied.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// HookPosEventRejected marks an event whose action was not legal at its time.
var HookPosEventRejected = &hooking.HookPos{Name: "EventRejected"}

// SerialEngine applies scheduled actions in time order and ticks the
// dispatcher in between.
type SerialEngine struct {
	*hooking.HookableBase

	dispatcher Dispatcher
	period     time.Duration

	timeLock sync.RWMutex
	now      time.Duration

	queue eventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine that drives the dispatcher with ticks
// of the given period.
func NewSerialEngine(d Dispatcher, period time.Duration) *SerialEngine {
	if period <= 0 {
		panic(fmt.Sprintf("timing: invalid tick period %s", period))
	}

	return &SerialEngine{
		HookableBase: hooking.NewHookableBase(),
		dispatcher:   d,
		period:       period,
		queue:        newScheduledEventQueue(),
	}
}

// Schedule registers an action to be applied in the future.
func (e *SerialEngine) Schedule(evt ScheduledEvent) {
	now := e.readNow()
	if evt.Time < now {
		panic(fmt.Sprintf(
			"timing: cannot schedule event in the past, evt %s @ %s, now %s",
			reflect.TypeOf(evt.Action), evt.Time, now,
		))
	}

	eventCopy := evt
	e.queue.Push(&eventCopy)
}

func (e *SerialEngine) readNow() time.Duration {
	e.timeLock.RLock()
	t := e.now
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t time.Duration) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// Run applies all scheduled events. The clock stops at the last event.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for e.queue.Len() > 0 {
		err := e.runNext()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunUntil applies the events scheduled up to t and then ticks the dispatcher
// until t. Later events stay queued.
func (e *SerialEngine) RunUntil(t time.Duration) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		next := e.queue.Peek()
		if next == nil || next.Time > t {
			break
		}

		err := e.runNext()
		if err != nil {
			return err
		}
	}

	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	e.advanceTo(t)

	return nil
}

func (e *SerialEngine) runNext() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	evt := e.queue.Pop()

	now := e.readNow()
	if evt.Time < now {
		panic(fmt.Sprintf(
			"timing: cannot run event in the past, evt %s @ %s, now %s",
			reflect.TypeOf(evt.Action), evt.Time, now,
		))
	}

	e.advanceTo(evt.Time)

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Now:    evt.Time,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	err := e.dispatcher.Apply(evt.Action)

	switch {
	case err == nil:
		hookCtx.Pos = HookPosAfterEvent
	case errors.Is(err, controller.ErrIllegalAction):
		hookCtx.Pos = HookPosEventRejected
		hookCtx.Detail = err
	default:
		return fmt.Errorf("timing: event @ %s: %w", evt.Time, err)
	}

	e.InvokeHook(hookCtx)

	return nil
}

// advanceTo ticks the dispatcher in steps of the period. The last step may be
// shorter.
func (e *SerialEngine) advanceTo(t time.Duration) {
	now := e.readNow()

	for now < t {
		step := min(e.period, t-now)
		e.dispatcher.Tick(step)
		now += step
		e.writeNow(now)
	}
}

// Pause prevents the engine from applying more events until Continue is
// called.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue resumes event processing after a Pause.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// IsPaused tells if the engine is paused.
func (e *SerialEngine) IsPaused() bool {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	return e.isPaused
}

// CurrentTime returns the virtual time the engine has reached.
func (e *SerialEngine) CurrentTime() time.Duration {
	return e.readNow()
}

// Pending returns the number of events not yet applied.
func (e *SerialEngine) Pending() int {
	return e.queue.Len()
}

var _ ActionScheduler = (*SerialEngine)(nil)
