package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gyeh/hospstats/internal/db"
	"github.com/gyeh/hospstats/internal/exitcode"
	"github.com/gyeh/hospstats/internal/logging"
)

var deleteRunCmd = &cobra.Command{
	Use:   "delete-run <run-id>",
	Short: "Delete a saved run with its monthly summaries and scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteRun,
}

func init() {
	rootCmd.AddCommand(deleteRunCmd)
}

func runDeleteRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	runID, err := uuid.Parse(args[0])
	if err != nil {
		log.Error().Err(err).Str("run_id", args[0]).Msg("invalid run id")
		os.Exit(exitcode.UsageError)
	}
	if cfg.DSN == "" {
		log.Error().Msg("--dsn or HOSPSTATS_DB_URL is required")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	found, err := db.DeleteRun(ctx, pool, runID)
	if err != nil {
		log.Error().Err(err).Msg("delete failed")
		pool.Close()
		os.Exit(exitcode.StoreError)
	}
	if !found {
		log.Warn().Str("run_id", runID.String()).Msg("run not found")
		return nil
	}

	log.Info().Str("run_id", runID.String()).Msg("run deleted")
	return nil
}
