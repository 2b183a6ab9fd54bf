// Package tracing records what the controller dispatches, so that a match can
// be audited after the fact.
package tracing

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/xid"

	"github.com/ahasselbring/GameController-HL/controller"
	"github.com/ahasselbring/GameController-HL/datarecording"
	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
)

// ActionTableName is the table the ActionTracer writes into.
const ActionTableName = "actions"

// ActionRecord is one dispatched action, together with the match state right
// after it.
type ActionRecord struct {
	ID        string
	TimeMs    int64
	Source    string
	Kind      string
	Args      string
	Accepted  bool
	Phase     string
	State     string
	SecState  string
	HomeScore int
	AwayScore int
}

// ActionTracer is a hook that records every action the controller executes
// or rejects.
type ActionTracer struct {
	recorder datarecording.DataRecorder
}

// NewActionTracer creates the action table in the recorder.
func NewActionTracer(recorder datarecording.DataRecorder) *ActionTracer {
	recorder.CreateTable(ActionTableName, ActionRecord{})

	return &ActionTracer{recorder: recorder}
}

// Func records executed and rejected actions.
func (t *ActionTracer) Func(ctx hooking.HookCtx) {
	var accepted bool

	switch ctx.Pos {
	case controller.HookPosAfterAction:
		accepted = true
	case controller.HookPosActionRejected:
	default:
		return
	}

	a, ok := ctx.Item.(game.Action)
	if !ok {
		return
	}

	d, ok := ctx.Detail.(controller.Detail)
	if !ok {
		return
	}

	t.recorder.InsertData(ActionTableName,
		newActionRecord(a, ctx.Now, d, accepted))
}

func newActionRecord(
	a game.Action,
	now time.Duration,
	d controller.Detail,
	accepted bool,
) ActionRecord {
	args, err := json.Marshal(a)
	if err != nil {
		args = nil
	}

	r := ActionRecord{
		ID:       xid.New().String(),
		TimeMs:   now.Milliseconds(),
		Source:   d.Source.String(),
		Kind:     game.ActionKind(a),
		Args:     string(args),
		Accepted: accepted,
	}

	if d.Game != nil {
		r.Phase = d.Game.Phase.String()
		r.State = d.Game.State.String()
		r.SecState = d.Game.SecState.State.String()
		r.HomeScore = d.Game.Teams[game.Home].Score
		r.AwayScore = d.Game.Teams[game.Away].Score
	}

	return r
}

// CollectTrace lets the tracer record the actions of a domain. A tracer can
// only be attached once.
func CollectTrace(domain hooking.Hookable, tracer *ActionTracer) {
	for _, hook := range domain.Hooks() {
		if hook == hooking.Hook(tracer) {
			panic(fmt.Sprintf(
				"domain already has tracer %s", reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(tracer)
}
