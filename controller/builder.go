package controller

import (
	"log"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

// DefaultMaxCascade bounds the number of actions a single dispatch may
// execute.
const DefaultMaxCascade = 64

// Builder can build controllers.
type Builder struct {
	params     *game.Params
	game       *game.Game
	maxCascade int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		maxCascade: DefaultMaxCascade,
	}
}

// WithParams sets the competition and match parameters. They are required.
func (b Builder) WithParams(p *game.Params) Builder {
	b.params = p
	return b
}

// WithGame sets the initial match state. By default, a new match is created
// from the parameters.
func (b Builder) WithGame(g *game.Game) Builder {
	b.game = g
	return b
}

// WithMaxCascade sets how many actions one dispatch may execute before the
// controller gives up.
func (b Builder) WithMaxCascade(n int) Builder {
	b.maxCascade = n
	return b
}

// Build creates a controller that owns the match state.
func (b Builder) Build() *Controller {
	if b.params == nil {
		log.Panic("controller: params are required")
	}

	if b.maxCascade <= 0 {
		log.Panicf("controller: invalid max cascade %d", b.maxCascade)
	}

	g := b.game
	if g == nil {
		g = game.NewGame(b.params)
	}

	return &Controller{
		HookableBase: hooking.NewHookableBase(),
		ctx:          game.NewContext(g, b.params),
		maxCascade:   b.maxCascade,
	}
}
