package config

import (
	"fmt"
	"os"

	"github.com/gyeh/hospstats/internal/model"
)

// Config holds all runtime configuration for a hospstats run.
type Config struct {
	DSN           string
	LogFormat     string // "text" or "json"
	LogLevel      string
	DataDir       string
	Region        string
	Facility      string
	Year          int
	Quadrimester  int
	Months        []int
	RulesPath     string
	InfectionPath string
	Save          bool
	ParquetOut    string
	XLSXOut       string
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("--data-dir is required")
	}
	if st, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("data dir not accessible: %w", err)
	} else if !st.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", c.DataDir)
	}
	if c.Region == "" {
		return fmt.Errorf("--region is required")
	}
	if c.Facility == "" {
		return fmt.Errorf("--facility is required")
	}
	if c.Year < 2000 || c.Year > 2099 {
		return fmt.Errorf("--year %d out of range", c.Year)
	}
	if _, err := c.PeriodMonths(); err != nil {
		return err
	}
	return nil
}

// ValidateWithDSN checks the run fields and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or HOSPSTATS_DB_URL is required")
	}
	return nil
}

// PeriodMonths returns the requested months: the explicit --months list when
// given, otherwise the months of --quadrimester.
func (c *Config) PeriodMonths() ([]int, error) {
	if len(c.Months) > 0 {
		return model.NormalizeMonths(c.Months)
	}
	if c.Quadrimester == 0 {
		return nil, fmt.Errorf("--quadrimester or --months is required")
	}
	return model.Quadrimester(c.Quadrimester)
}
