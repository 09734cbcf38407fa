package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "hospstats",
	Short: "Hospital performance indicators from monthly public extracts",
	Long: "Computes and scores mortality, occupancy, length-of-stay, ICU occupancy and catheter " +
		"infection density for one facility over a period, from monthly hospitalization (RD) and " +
		"bed inventory (LT) extracts stored in a local directory.",
	SilenceUsage: true,
}

func init() {
	// A .env in the working directory may carry HOSPSTATS_DB_URL; real env vars win.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("HOSPSTATS_DB_URL"), "Postgres connection string (or set HOSPSTATS_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&cfg.DataDir, "data-dir", "data", "Directory holding the RD/LT extract files")
	pf.StringVar(&cfg.Region, "region", "", "Two-letter region code of the extracts, e.g. SP")
	pf.StringVar(&cfg.Facility, "facility", "", "Facility registry code")
	pf.IntVar(&cfg.Year, "year", 0, "Year of the period")
	pf.IntVar(&cfg.Quadrimester, "quadrimester", 0, "Quadrimester of the period (1, 2 or 3)")
	pf.IntSliceVar(&cfg.Months, "months", nil, "Explicit months of the period, overrides --quadrimester")
	pf.StringVar(&cfg.RulesPath, "rules", "", "YAML file overriding code sets, thresholds and default bed counts")
	pf.StringVar(&cfg.InfectionPath, "infection", "", "YAML file with manual catheter infection counts")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
