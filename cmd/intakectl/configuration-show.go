package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/identity-intake/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show configuration attributes and their sources.

The values displayed reflect the current state of the configuration sources,
the environment and the config file. They may differ from the values used by
a server that was started earlier. Secrets are redacted.

Config file location: /etc/intake/intake.yml (or INTAKE_CONFIG_PATH)

Example:
  intakectl configuration show
  intakectl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(cmd.OutOrStdout(), output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(out io.Writer, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, jsonOutput)
	case "text":
		fmt.Fprint(out, cfg.FormatText())
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}
