package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/hospstats/internal/model"
)

// Dir serves extracts from a local directory populated by the downloader.
// For a stem such as RDSP2505 it reads RDSP2505.parquet, split parts
// RDSP2505a.parquet, RDSP2505b.csv and so on, and partitioned datasets stored
// as a RDSP2505.parquet/ directory of part files.
type Dir struct {
	root string
	log  zerolog.Logger
}

// NewDir returns a provider rooted at root.
func NewDir(root string, log zerolog.Logger) *Dir {
	return &Dir{root: root, log: log}
}

// Files lists the files that make up req, sorted by name.
func (d *Dir) Files(req Request) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}
	stem := req.Stem()
	var files []string
	for _, e := range entries {
		ext, ok := matchStem(e.Name(), stem)
		if !ok {
			continue
		}
		path := filepath.Join(d.root, e.Name())
		if !e.IsDir() {
			files = append(files, path)
			continue
		}
		if ext != ".parquet" {
			continue
		}
		parts, err := filepath.Glob(filepath.Join(path, "*.parquet"))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		files = append(files, parts...)
	}
	sort.Strings(files)
	return files, nil
}

// Fetch reads and concatenates every file of req.
func (d *Dir) Fetch(ctx context.Context, req Request) (*model.Table, error) {
	files, err := d.Files(req)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", req.Stem(), ErrNoFiles)
	}

	var out *model.Table
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := ReadFile(f)
		if err != nil {
			return nil, err
		}
		d.log.Debug().Str("file", filepath.Base(f)).Int("rows", t.Len()).Msg("read extract file")
		if out == nil {
			out = t
		} else {
			out.Concat(t)
		}
	}
	return out, nil
}

// ReadFile decodes one extract file by extension.
func ReadFile(path string) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ReadParquet(path)
	case ".csv":
		return ReadCSV(path)
	}
	return nil, fmt.Errorf("unsupported extract file %s", path)
}

// matchStem reports whether name is stem, optionally followed by one split
// letter, with a .parquet or .csv extension.
func matchStem(name, stem string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".parquet" && ext != ".csv" {
		return "", false
	}
	base := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	if !strings.HasPrefix(base, stem) {
		return "", false
	}
	switch rest := base[len(stem):]; {
	case rest == "":
		return ext, true
	case len(rest) == 1 && rest[0] >= 'A' && rest[0] <= 'Z':
		return ext, true
	}
	return "", false
}
