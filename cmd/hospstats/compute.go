package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/db"
	"github.com/gyeh/hospstats/internal/exitcode"
	"github.com/gyeh/hospstats/internal/export"
	"github.com/gyeh/hospstats/internal/logging"
	"github.com/gyeh/hospstats/internal/pipeline"
	"github.com/gyeh/hospstats/internal/source"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute and score the indicators of a facility over a period",
	RunE:  runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.BoolVar(&cfg.Save, "save", false, "Store the run in Postgres (requires --dsn)")
	f.StringVar(&cfg.ParquetOut, "parquet", "", "Write the monthly table to this Parquet file")
	f.StringVar(&cfg.XLSXOut, "xlsx", "", "Write the monthly table and summary to this XLSX workbook")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	validate := cfg.Validate
	if cfg.Save {
		validate = cfg.ValidateWithDSN
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	months, _ := cfg.PeriodMonths()

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Error().Err(err).Msg("rules file invalid")
		os.Exit(exitcode.ValidationError)
	}
	infection, err := config.LoadInfection(cfg.InfectionPath)
	if err != nil {
		log.Error().Err(err).Msg("infection file invalid")
		os.Exit(exitcode.ValidationError)
	}

	p, err := pipeline.New(source.NewDir(cfg.DataDir, log), rules, log)
	if err != nil {
		log.Error().Err(err).Msg("pipeline setup failed")
		os.Exit(exitcode.ValidationError)
	}

	run, err := p.Run(ctx, pipeline.Request{
		Region:   cfg.Region,
		Facility: cfg.Facility,
		Year:     cfg.Year,
		Months:   months,
	}, infection)
	if err != nil {
		var pe *pipeline.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("compute failed")
		} else {
			log.Error().Err(err).Msg("compute failed")
		}
		os.Exit(exitcode.ValidationError)
	}

	if err := export.WriteText(os.Stdout, run); err != nil {
		log.Error().Err(err).Msg("failed to print results")
		os.Exit(exitcode.ExportError)
	}
	if cfg.ParquetOut != "" {
		if err := export.WriteParquet(cfg.ParquetOut, run); err != nil {
			log.Error().Err(err).Msg("parquet export failed")
			os.Exit(exitcode.ExportError)
		}
		log.Info().Str("path", cfg.ParquetOut).Msg("parquet written")
	}
	if cfg.XLSXOut != "" {
		if err := export.WriteXLSX(cfg.XLSXOut, run); err != nil {
			log.Error().Err(err).Msg("xlsx export failed")
			os.Exit(exitcode.ExportError)
		}
		log.Info().Str("path", cfg.XLSXOut).Msg("xlsx written")
	}

	if cfg.Save {
		pool, err := db.NewPool(ctx, cfg.DSN, log)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer pool.Close()
		if _, err := db.SaveRun(ctx, pool, log, run); err != nil {
			log.Error().Err(err).Msg("store failed")
			pool.Close()
			os.Exit(exitcode.StoreError)
		}
	}

	if len(run.Failures) > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
