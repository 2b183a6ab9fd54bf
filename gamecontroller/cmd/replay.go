package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ahasselbring/GameController-HL/config"
	"github.com/ahasselbring/GameController-HL/controller"
	"github.com/ahasselbring/GameController-HL/datarecording"
	"github.com/ahasselbring/GameController-HL/game"
	"github.com/ahasselbring/GameController-HL/hooking"
	"github.com/ahasselbring/GameController-HL/scenario"
	"github.com/ahasselbring/GameController-HL/timing"
	"github.com/ahasselbring/GameController-HL/tracing"
)

type replayOptions struct {
	trace   bool
	traceDB string
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	replayOpts := &replayOptions{}

	replayCmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Replay a scenario and print the final match state.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			m := newMatch(cmd, opts, cfg, s)

			if replayOpts.trace || replayOpts.traceDB != "" {
				traceCfg := cfg.Trace
				if replayOpts.traceDB != "" {
					traceCfg.Path = replayOpts.traceDB
				}

				err = m.startTrace(traceCfg, args[0])
				if err != nil {
					return err
				}
			}

			err = m.run(s)

			closeErr := m.endTrace()
			if err == nil {
				err = closeErr
			}

			if err != nil {
				return err
			}

			return printState(cmd, m.controller.Snapshot())
		},
	}

	replayCmd.Flags().BoolVar(&replayOpts.trace, "trace", false,
		"record the dispatched actions with the configured recorder")
	replayCmd.Flags().StringVar(&replayOpts.traceDB, "trace-db", "",
		"record into this SQLite file, without the .sqlite3 extension")

	return replayCmd
}

// match is a controller driven by a virtual-time engine, with the hooks the
// command line asked for.
type match struct {
	controller *controller.Controller
	engine     *timing.SerialEngine

	recorder     datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
}

func newMatch(
	cmd *cobra.Command,
	opts *rootOptions,
	cfg config.Config,
	s *scenario.Scenario,
) *match {
	params := cfg.Params()

	g := game.NewGame(params)
	s.Apply(g)

	c := controller.MakeBuilder().
		WithParams(params).
		WithGame(g).
		WithMaxCascade(cfg.MaxCascade).
		Build()

	if opts.verbose {
		c.AcceptHook(hooking.OnlyAt(
			controller.NewActionLogger(log.New(cmd.ErrOrStderr(), "", 0)),
			controller.HookPosAfterAction, controller.HookPosActionRejected))
	}

	engine := timing.NewSerialEngine(c, cfg.TickPeriod)
	s.Schedule(engine)

	return &match{controller: c, engine: engine}
}

func (m *match) startTrace(
	cfg datarecording.RecorderConfig,
	scenarioPath string,
) error {
	recorder, err := datarecording.NewDataRecorderWithConfig(cfg)
	if err != nil {
		return err
	}

	m.recorder = recorder

	m.execRecorder = datarecording.NewExecRecorder(recorder)
	m.execRecorder.Start()
	m.execRecorder.Property("Scenario", scenarioPath)

	tracing.CollectTrace(m.controller, tracing.NewActionTracer(recorder))

	return nil
}

func (m *match) run(s *scenario.Scenario) error {
	err := m.engine.RunUntil(s.End())
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	return nil
}

func (m *match) endTrace() error {
	if m.recorder == nil {
		return nil
	}

	m.execRecorder.Property("Virtual Time", m.engine.CurrentTime().String())
	m.execRecorder.End()

	return m.recorder.Close()
}

func printState(cmd *cobra.Command, g *game.Game) error {
	out, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}
