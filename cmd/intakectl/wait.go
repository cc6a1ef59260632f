package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the intake server to be ready",
	Long: `Wait for the intake server to be ready by polling the status endpoint.

This command will repeatedly check the server status until it responds
successfully or the maximum number of retries is reached.

Example:
  intakectl wait
  intakectl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")

		url := fmt.Sprintf("http://localhost:%d/", port)
		if err := waitForServer(cmd.OutOrStdout(), url, retries, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8080
}

func waitForServer(out io.Writer, url string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Fprintln(out, "Waiting for the intake server to be ready...")

	for i := 0; i < retries; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 300 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Intake server is ready")
				return nil
			}
		}

		fmt.Fprint(out, ".")
		time.Sleep(interval)
	}

	fmt.Fprintln(out)
	return fmt.Errorf("not ready after %d attempts", retries)
}
