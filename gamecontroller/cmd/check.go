package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print it.",
		Long: `check loads the configuration from the file, the .env files ` +
			`and the environment, validates it and prints the result in the ` +
			`format of the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			err = enc.Encode(cfg)
			if err != nil {
				return err
			}

			return enc.Close()
		},
	}
}
