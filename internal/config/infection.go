package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/hospstats/internal/model"
)

// yamlInfection is the on-disk YAML structure of the manual infection file.
type yamlInfection struct {
	Infection []model.InfectionEntry `yaml:"infection"`
}

// LoadInfection reads manually entered catheter infection counts. An empty
// path yields no entries, which scores every month with zero cases and days.
func LoadInfection(path string) ([]model.InfectionEntry, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read infection file: %w", err)
	}
	var yi yamlInfection
	if err := yaml.Unmarshal(data, &yi); err != nil {
		return nil, fmt.Errorf("parse infection file: %w", err)
	}
	for i, e := range yi.Infection {
		if e.Month < 1 || e.Month > 12 {
			return nil, fmt.Errorf("infection entry %d: month %d out of range", i+1, e.Month)
		}
		if e.Cases < 0 || e.CatheterDays < 0 {
			return nil, fmt.Errorf("infection entry %d: negative count", i+1)
		}
	}
	return yi.Infection, nil
}
