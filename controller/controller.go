// Package controller dispatches actions and clock ticks to the match state.
//
// The controller is the only writer of the match. It gates every action on
// IsLegal and runs everything an action or a tick sets off before it returns.
package controller

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ahasselbring/GameController-HL/actions"
	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

type workItem struct {
	action game.Action
	source ActionSource
}

// Controller owns a match and serializes every change to it.
type Controller struct {
	*hooking.HookableBase

	lock       sync.Mutex
	ctx        *game.Context
	now        time.Duration
	maxCascade int
}

// IsLegal checks whether the action could be applied now.
func (c *Controller) IsLegal(a game.Action) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return a.IsLegal(c.ctx)
}

// Apply executes the action if it is legal, together with everything it sets
// off. An illegal action leaves the match untouched and returns an error
// wrapping ErrIllegalAction.
func (c *Controller) Apply(a game.Action) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !a.IsLegal(c.ctx) {
		c.invokeActionHook(HookPosActionRejected, a, SourceUser)
		return fmt.Errorf("%w: %s", ErrIllegalAction, game.ActionKind(a))
	}

	c.execute(a, SourceUser)
	c.drain(c.takePending())

	return nil
}

// Tick advances every clock by dt. Actions released by clocks reaching zero
// run in clock order, before Tick returns.
func (c *Controller) Tick(dt time.Duration) {
	if dt < 0 {
		log.Panicf("controller: negative tick %s", dt)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.now += dt

	g := c.ctx.Game

	var work []workItem
	for _, t := range g.Timers() {
		for _, v := range t.Tick(dt, g) {
			if v.Action != nil {
				work = append(work, workItem{action: v.Action, source: SourceTimer})
			}
		}
	}

	c.drain(work)

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosTick,
		Now:    c.now,
		Item:   dt,
		Detail: c.detail(SourceTimer),
	})
}

// drain executes queued actions first in, first out. Actions enqueued while
// draining go to the back. Queued actions that are no longer legal are
// dropped.
func (c *Controller) drain(work []workItem) {
	executed := 0

	for len(work) > 0 {
		item := work[0]
		work = work[1:]

		if !item.action.IsLegal(c.ctx) {
			c.invokeActionHook(HookPosActionRejected, item.action, item.source)
			continue
		}

		executed++
		if executed > c.maxCascade {
			log.Panicf("controller: cascade exceeds %d actions", c.maxCascade)
		}

		c.execute(item.action, item.source)
		work = append(work, c.takePending()...)
	}
}

func (c *Controller) execute(a game.Action, source ActionSource) {
	c.invokeActionHook(HookPosBeforeAction, a, source)
	a.Execute(c.ctx)
	c.invokeActionHook(HookPosAfterAction, a, source)
}

func (c *Controller) takePending() []workItem {
	pending := c.ctx.TakePending()

	items := make([]workItem, 0, len(pending))
	for _, a := range pending {
		if a != nil {
			items = append(items, workItem{action: a, source: SourceTimer})
		}
	}

	return items
}

func (c *Controller) invokeActionHook(
	pos *hooking.HookPos,
	a game.Action,
	source ActionSource,
) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    pos,
		Now:    c.now,
		Item:   a,
		Detail: c.detail(source),
	})
}

func (c *Controller) detail(source ActionSource) Detail {
	return Detail{Source: source, Game: c.ctx.Game}
}

// Now returns the total time ticked so far.
func (c *Controller) Now() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.now
}

// Snapshot returns a deep copy of the match state.
func (c *Controller) Snapshot() *game.Game {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.ctx.Game.Clone()
}

// Params returns the parameters the match is played with.
func (c *Controller) Params() game.Params {
	return *c.ctx.Params
}

// LegalActions returns the operator actions that are legal now.
func (c *Controller) LegalActions() []game.Action {
	c.lock.Lock()
	defer c.lock.Unlock()

	var legal []game.Action
	for _, a := range actions.Candidates() {
		if a.IsLegal(c.ctx) {
			legal = append(legal, a)
		}
	}

	return legal
}
