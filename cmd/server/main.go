package main // Entry point package

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the API server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "cinebook",
	Short: "Movie booking backend API",
	Long: `cinebook serves the movie catalog and ticket bookings over a JSON API.

Commands:
  serve    - run the HTTP API (default)
  migrate  - create the database tables and exit
  consume  - append booking events from the broker to logs/booking.log`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, consumeCmd)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
