package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gyeh/hospstats/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV loads a CSV extract. Files with a UTF-8 byte order mark are read as
// UTF-8, anything else as Latin-1. The delimiter (';' or ',') is taken from
// the header line.
func ReadCSV(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	t, err := decodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return t, nil
}

func decodeCSV(r io.Reader) (*model.Table, error) {
	br := bufio.NewReaderSize(r, 256*1024)

	var in io.Reader = br
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(3)
	} else {
		in = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}
	dr := bufio.NewReader(in)

	first, err := dr.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	if len(first) == 0 {
		return model.NewTable(nil), nil
	}

	cr := csv.NewReader(dr)
	cr.Comma = detectDelimiter(first)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := model.NewTable(header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cells := make([]string, len(header))
		copy(cells, rec)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// detectDelimiter picks ';' when the header line has more semicolons than
// commas.
func detectDelimiter(b []byte) rune {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	if bytes.Count(b, []byte{';'}) > bytes.Count(b, []byte{','}) {
		return ';'
	}
	return ','
}
