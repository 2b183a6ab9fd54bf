package game

import "github.com/ahasselbring/GameController-HL/timer"

// An Action is an event that may change the match.
//
// IsLegal must not modify the context. Execute may assume that IsLegal has
// just returned true for the same context; it does not check again.
type Action interface {
	IsLegal(c *Context) bool
	Execute(c *Context)
}

// Timer is a match clock whose expiry carries tagged action values.
type Timer = timer.Timer[VAction]

// Context is what every action operates on: the match state that it may
// change and the parameters that it may only read.
type Context struct {
	Game   *Game
	Params *Params

	pending []Action
}

// NewContext pairs a match state with its parameters.
func NewContext(g *Game, p *Params) *Context {
	return &Context{Game: g, Params: p}
}

// Enqueue schedules actions that must run right after the current one, in
// the same dispatch. Actions released by a timer collapsed with ToZero go
// here.
func (c *Context) Enqueue(actions ...VAction) {
	for _, a := range actions {
		c.pending = append(c.pending, a.Action)
	}
}

// TakePending returns and clears the enqueued actions.
func (c *Context) TakePending() []Action {
	pending := c.pending
	c.pending = nil

	return pending
}
