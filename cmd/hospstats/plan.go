package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/exitcode"
	"github.com/gyeh/hospstats/internal/logging"
	"github.com/gyeh/hospstats/internal/normalize"
	"github.com/gyeh/hospstats/internal/source"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry run: list extract files and resolved columns per month (no computation)",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Error().Err(err).Msg("rules file invalid")
		os.Exit(exitcode.ValidationError)
	}
	months, _ := cfg.PeriodMonths()

	dir := source.NewDir(cfg.DataDir, log)
	missing := 0

	fmt.Println("=== hospstats plan ===")
	fmt.Printf("Data dir:  %s\n", cfg.DataDir)
	fmt.Printf("Facility:  %s\n", normalize.FacilityID(cfg.Facility))
	fmt.Printf("Region:    %s\n", cfg.Region)
	fmt.Printf("Months:    %v / %d\n", months, cfg.Year)

	for _, m := range months {
		fmt.Println()
		for _, g := range []source.Group{source.GroupBeds, source.GroupHospitalization} {
			req := source.Request{Group: g, Region: cfg.Region, Year: cfg.Year, Month: m}
			files, err := dir.Files(req)
			if err != nil {
				log.Error().Err(err).Msg("failed to list data dir")
				os.Exit(exitcode.ValidationError)
			}
			if len(files) == 0 {
				missing++
				fmt.Printf("%s: no files\n", req.Stem())
				continue
			}
			fmt.Printf("%s: %d file(s)\n", req.Stem(), len(files))
			for _, f := range files {
				sha, err := normalize.FileHash(f)
				if err != nil {
					log.Error().Err(err).Str("file", f).Msg("failed to hash file")
					os.Exit(exitcode.ValidationError)
				}
				fmt.Printf("  %-24s %s\n", filepath.Base(f), sha[:16])
			}
			if err := printColumns(dir, req, rules); err != nil {
				log.Warn().Err(err).Str("stem", req.Stem()).Msg("failed to read extract")
			}
		}
	}

	fmt.Printf("\n%d of %d extracts missing\n", missing, 2*len(months))
	return nil
}

func printColumns(dir *source.Dir, req source.Request, rules *config.Rules) error {
	t, err := dir.Fetch(context.Background(), req)
	if errors.Is(err, source.ErrNoFiles) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("  rows: %d\n", t.Len())
	for _, r := range source.ValidateHeader(req.Group, t.Columns, rules) {
		col := r.Column
		if col == "" {
			col = "(not found, metric defaults)"
		}
		fmt.Printf("  %-16s %s\n", r.Field, col)
	}
	return nil
}
