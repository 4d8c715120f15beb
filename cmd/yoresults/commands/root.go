package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"
	"yoresults/lib/serviceutil"
	"yoresults/lib/telemetry"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	providers telemetry.Telemetry
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file, overridden by its .local variant.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "yoresults",
	Short: "yoresults scrapes the grade thresholds of the Finnish matriculation examination.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to load .env", "err", err)
		}

		providers, err = telemetry.SetupFromEnv(cmd.Context(), "yoresults")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no telemetry.json5 found, telemetry export is disabled")
		} else if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := providers.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

// ExecuteContext runs the cli, telemetry is flushed before a failing command
// exits the process.
func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	flushTelemetry()
	if err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
