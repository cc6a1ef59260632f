package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intakectl",
	Short: "Identity text intake service",
	Long: `Run and manage the identity text intake service.

The service accepts OCR text of an identity document, extracts the holder's
fields, stores them and sends a notification email.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
