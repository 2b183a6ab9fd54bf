package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahasselbring/GameController-HL/hooking"
	"github.com/ahasselbring/GameController-HL/monitoring"
	"github.com/ahasselbring/GameController-HL/scenario"
	"github.com/ahasselbring/GameController-HL/timing"
)

type serveOptions struct {
	scenarioPath string
	port         int
	open         bool
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	serveOpts := &serveOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Replay a scenario while serving the match for inspection.",
		Long: `serve replays the scenario in the background and keeps the ` +
			`match inspectable through the monitoring server until it is ` +
			`interrupted. Without a scenario, the match stays in its ` +
			`initial state and is only driven through the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, opts, serveOpts)
		},
	}

	flags := serveCmd.Flags()
	flags.StringVarP(&serveOpts.scenarioPath, "scenario", "s", "",
		"scenario to replay")
	flags.IntVarP(&serveOpts.port, "port", "p", 0,
		"port of the monitoring server, overriding the configuration")
	flags.BoolVar(&serveOpts.open, "open", false,
		"open the monitor in the default browser")

	return serveCmd
}

func serve(cmd *cobra.Command, opts *rootOptions, serveOpts *serveOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	s := &scenario.Scenario{}
	if serveOpts.scenarioPath != "" {
		s, err = scenario.Load(serveOpts.scenarioPath)
		if err != nil {
			return err
		}
	}

	m := newMatch(cmd, opts, cfg, s)

	port := cfg.Monitor.Port
	if cmd.Flags().Changed("port") {
		port = serveOpts.port
	}

	monitor := monitoring.NewMonitor().WithPortNumber(port)
	monitor.RegisterController(m.controller)
	monitor.RegisterEngine(m.engine)

	bar := monitor.CreateProgressBar("replay", s.End())
	m.engine.AcceptHook(hooking.OnlyAt(&progressHook{bar: bar},
		timing.HookPosAfterEvent, timing.HookPosEventRejected))

	addr, err := monitor.StartServer()
	if err != nil {
		return err
	}

	if serveOpts.open || cfg.Monitor.OpenBrowser {
		err = monitor.OpenInBrowser(addr)
		if err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() {
		runErr <- m.run(s)
	}()

	select {
	case err = <-runErr:
		if err == nil {
			bar.MoveTo(m.engine.CurrentTime())
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Replay finished at %s, serving until interrupted\n",
				m.engine.CurrentTime())
			<-ctx.Done()
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdownErr := monitor.Shutdown(shutdownCtx)
	if err == nil {
		err = shutdownErr
	}

	return err
}

// progressHook moves the progress bar along with the engine.
type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h *progressHook) Func(ctx hooking.HookCtx) {
	h.bar.MoveTo(ctx.Now)
}
