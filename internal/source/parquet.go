package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/hospstats/internal/model"
)

const readBatch = 1024

// ReadParquet loads a parquet extract without a fixed schema. The header is
// the leaf column names of the file schema; every value is stringified.
func ReadParquet(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}

	paths := pf.Schema().Columns()
	header := make([]string, len(paths))
	for i, p := range paths {
		header[i] = p[len(p)-1]
	}
	t := model.NewTable(header)

	buf := make([]parquet.Row, readBatch)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, len(header), buf, t); err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
	}
	return t, nil
}

func readRowGroup(rg parquet.RowGroup, width int, buf []parquet.Row, t *model.Table) error {
	rows := rg.Rows()
	defer rows.Close()
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]string, width)
			for _, v := range row {
				if c := v.Column(); c >= 0 && c < width && !v.IsNull() {
					cells[c] = valueString(v)
				}
			}
			t.Rows = append(t.Rows, cells)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func valueString(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		if v.Boolean() {
			return "1"
		}
		return "0"
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return strings.TrimSpace(string(v.ByteArray()))
	}
	return v.String()
}
