package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/identity-intake/pkg/extract"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract identity fields from OCR text",
	Long: `Extract identity fields from OCR text.

Reads a file, or stdin when no file is given, and prints the extracted
record as JSON. Nothing is stored and no email is sent. Exits with status 1
when a field is missing.

Example:
  intakectl extract scan.txt
  cat scan.txt | intakectl extract`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer func() { _ = f.Close() }()
			in = f
		}

		if err := runExtract(in, cmd.OutOrStdout()); err != nil {
			fmt.Fprintln(os.Stderr, "Extraction failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	rec, err := extract.Record(string(data))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}
