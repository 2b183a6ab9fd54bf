// Package cmd provides the command-line interface of the game controller.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/ahasselbring/GameController-HL/config"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	verbose    bool
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.configPath, o.envFiles...)
}

// newRootCmd builds the command tree. Every call returns fresh commands, so
// flags do not leak from one execution into the next.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gamecontroller",
		Short: "Referee box rules engine for robot soccer matches.",
		Long: `The game controller checks match configurations, replays ` +
			`scripted matches on a virtual clock and inspects the traces ` +
			`they leave.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"YAML file with the competition and match parameters")
	flags.StringSliceVar(&opts.envFiles, "env", nil,
		".env files to load before reading GC_* variables")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"log every dispatched action")

	rootCmd.AddCommand(
		newCheckCmd(opts),
		newReplayCmd(opts),
		newServeCmd(opts),
		newTraceCmd(),
	)

	return rootCmd
}

// Execute runs the command line and exits with a non-zero code on failure.
// Functions registered with atexit, such as the flush of a trace, run in
// either case.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
