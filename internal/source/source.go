// Package source locates and decodes the monthly public-health extracts.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/hospstats/internal/model"
)

// Group identifies an extract family.
type Group string

const (
	// GroupHospitalization is the reduced hospitalization (discharge) extract.
	GroupHospitalization Group = "RD"
	// GroupBeds is the bed inventory extract.
	GroupBeds Group = "LT"
)

// ErrNoFiles reports that no extract file exists for a request.
var ErrNoFiles = errors.New("no files available")

// Request selects one month of one extract family for one region.
type Request struct {
	Group  Group
	Region string
	Year   int
	Month  int
}

// Stem returns the public file-name stem, e.g. RDSP2505.
func (r Request) Stem() string {
	return fmt.Sprintf("%s%s%02d%02d", r.Group, strings.ToUpper(r.Region), r.Year%100, r.Month)
}

func (r Request) String() string { return r.Stem() }

// Provider returns the record set of a request. Implementations return an
// error wrapping ErrNoFiles when the month has not been published.
type Provider interface {
	Fetch(ctx context.Context, req Request) (*model.Table, error)
}
