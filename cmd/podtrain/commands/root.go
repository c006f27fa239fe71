// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/podtrain/cmd/podtrain/handlers"
	"github.com/imamik/podtrain/internal/config"
)

// ActionRun is the only action that contacts the provider.
const ActionRun = "run"

// Root returns the root command for the podtrain CLI.
//
// The optional positional argument is the action. "run" executes the job;
// any other value, or none, prints the effective configuration.
//
// Optional flags:
//
//	--config, -c: Path to a JSON configuration file (default: config.json, may be absent)
//	--output, -o: Format of the printed configuration, json or yaml
//	--<key>:      One flag per configuration key, e.g. --min-memory 24
//
// Environment variables:
//
//	PODTRAIN_<KEY>: Overrides the file, e.g. PODTRAIN_MAX_BID=0.4
//	RUNPOD_API_KEY: Provider API key
func Root() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "podtrain [action]",
		Short: "Fine-tune a model on the cheapest matching GPU instance",
		Long: `Rent the cheapest GPU instance that satisfies the configured memory and
bid constraints, run the training workflow on it, download the results and
stop the instance.

Configuration is merged from built-in defaults, the JSON config file,
PODTRAIN_* environment variables and flags, in increasing precedence.

Examples:
  # Print the effective configuration
  podtrain

  # Print it as YAML with a flag override
  podtrain --min-memory 48 -o yaml

  # Run the job
  podtrain run -c job.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := handlers.Options{
				ConfigPath:     configPath,
				ConfigRequired: cmd.Flags().Changed("config"),
				Output:         output,
				Flags:          cmd.Flags(),
			}

			if len(args) == 1 && args[0] == ActionRun {
				return handlers.Run(cmd.Context(), opts)
			}
			return handlers.ShowConfig(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to JSON configuration file")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputJSON, "Output format of the printed configuration: json or yaml")
	config.RegisterFlags(cmd.Flags())

	// "help" and "completion" are actions like any other and print the
	// configuration. --help still works.
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	cmd.AddCommand(Version())

	return cmd
}
