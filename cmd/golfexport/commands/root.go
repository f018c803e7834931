package commands

import (
	"context"
	"errors"
	"fmt"
	"golfexport/lib/telemetry"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	token      *string
	outDir     *string
	baseUrl    *string
	dumpHttp   *bool
	verbose    *bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", "config.json5", "The config file, config.local.json5 next to it overrides it.")
	token = flags.String("token", "", "The Authorization header of a logged in Garmin Connect session, a bare token gets the Bearer scheme.")
	outDir = flags.String("out", "", "The directory exports are written to, - writes to stdout.")
	baseUrl = flags.String("base-url", "", "The Garmin Connect base url.")
	dumpHttp = flags.Bool("dump-http", false, "Writes every raw http exchange to <dev_state>/http/<kind>.")
	verbose = flags.BoolP("verbose", "v", false, "Enables debug logging.")
}

var rootCmd = &cobra.Command{
	Use:          "golfexport",
	Short:        "golfexport exports Garmin golf scorecards and shots as CSV.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		err := telemetry.SetupFromEnv(cmd.Context(), "golfexport")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to setup telemetry, continuing without it", "err", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := telemetry.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
