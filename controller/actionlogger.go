package controller

import (
	"log"

	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

// ActionLogger is a hook that prints every dispatched action.
type ActionLogger struct {
	hooking.LogHookBase
}

// NewActionLogger returns a new ActionLogger which will write into the logger.
func NewActionLogger(logger *log.Logger) *ActionLogger {
	h := new(ActionLogger)
	h.Logger = logger

	return h
}

// Func writes the action information into the logger.
func (h *ActionLogger) Func(ctx hooking.HookCtx) {
	a, ok := ctx.Item.(game.Action)
	if !ok {
		return
	}

	d, ok := ctx.Detail.(Detail)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosAfterAction:
		h.Logger.Printf("%.3f, %s, %s -> %s",
			ctx.Now.Seconds(), d.Source, game.ActionKind(a), d.Game.State)
	case HookPosActionRejected:
		h.Logger.Printf("%.3f, %s, %s rejected",
			ctx.Now.Seconds(), d.Source, game.ActionKind(a))
	}
}

var _ hooking.LogHook = (*ActionLogger)(nil)
