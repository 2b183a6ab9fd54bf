// Package hooking lets observers attach to the places where the controller
// and the engine change the match.
package hooking

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// HookPos names a place in the match flow where hooks fire.
type HookPos struct {
	Name string
}

func (p *HookPos) String() string {
	if p == nil {
		return "<none>"
	}

	return p.Name
}

// HookCtx describes one firing. Now is the match clock of the domain when the
// hook fires: the ticked time for the controller and the event time for the
// engine.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Now    time.Duration

	// Item is the subject of the firing, an action or a scheduled event.
	Item any

	// Detail is site specific and may be nil.
	Detail any
}

// Hookable is implemented by everything that lets observers follow the match.
type Hookable interface {
	// AcceptHook registers a hook. There is no removal.
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
	InvokeHook(ctx HookCtx)
}

// Hook observes a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase keeps the registered hooks of a Hookable. It may be shared
// between the goroutine that dispatches and the ones that register, e.g. a
// monitor attaching a stream to a running match.
type HookableBase struct {
	lock  sync.RWMutex
	hooks []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return len(h.hooks)
}

// Hooks returns a copy of the registered hooks in registration order.
func (h *HookableBase) Hooks() []Hook {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return slices.Clone(h.hooks)
}

// AcceptHook appends the hook. Registering the same hook twice panics since
// it would observe every firing twice.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if slices.Contains(h.hooks, hook) {
		panic(fmt.Sprintf("hooking: %T registered twice", hook))
	}

	h.hooks = append(h.hooks, hook)
}

// InvokeHook calls the hooks in registration order. Hooks registered by a
// hook during the call only see later firings.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	h.lock.RLock()
	hooks := h.hooks
	h.lock.RUnlock()

	for _, hook := range hooks {
		hook.Func(ctx)
	}
}

// OnlyAt wraps a hook so that it only sees firings at the given positions.
func OnlyAt(hook Hook, pos ...*HookPos) Hook {
	return &posFilter{hook: hook, pos: pos}
}

type posFilter struct {
	hook Hook
	pos  []*HookPos
}

func (f *posFilter) Func(ctx HookCtx) {
	if slices.Contains(f.pos, ctx.Pos) {
		f.hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
