package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ahasselbring/GameController-HL/datarecording"
	"github.com/ahasselbring/GameController-HL/tracing"
)

type traceOptions struct {
	kind   string
	limit  int
	offset int
}

func newTraceCmd() *cobra.Command {
	traceOpts := &traceOptions{}

	traceCmd := &cobra.Command{
		Use:   "trace <db>",
		Short: "List the actions recorded in a SQLite trace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTrace(cmd, args[0], traceOpts)
		},
	}

	flags := traceCmd.Flags()
	flags.StringVar(&traceOpts.kind, "kind", "", "only list actions of this kind")
	flags.IntVar(&traceOpts.limit, "limit", 0, "list at most this many actions")
	flags.IntVar(&traceOpts.offset, "offset", 0, "skip this many actions")

	return traceCmd
}

func listTrace(cmd *cobra.Command, path string, opts *traceOptions) error {
	if !strings.HasSuffix(path, ".sqlite3") {
		path += ".sqlite3"
	}

	// Opening a missing SQLite file would create it.
	_, err := os.Stat(path)
	if err != nil {
		return err
	}

	reader := datarecording.NewReader(path)
	defer reader.Close()

	params := datarecording.QueryParams{
		Limit:  opts.limit,
		Offset: opts.offset,
	}

	if opts.kind != "" {
		params.Where = "Kind = ?"
		params.Args = []any{opts.kind}
	}

	records, total, err := tracing.ReadActions(cmd.Context(), reader, params)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSOURCE\tACTION\tACCEPTED\tPHASE\tSTATE\tSCORE")

	for _, r := range records {
		fmt.Fprintf(w, "%.3f\t%s\t%s %s\t%t\t%s\t%s\t%d:%d\n",
			float64(r.TimeMs)/1000, r.Source, r.Kind, r.Args, r.Accepted,
			r.Phase, r.State, r.HomeScore, r.AwayScore)
	}

	err = w.Flush()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d actions\n", len(records), total)

	return nil
}
