package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/hospstats/internal/model"
)

// WriteParquet writes the monthly records of run to path, Snappy compressed.
func WriteParquet(path string, run *model.RunSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[MonthlyRecord](file,
		parquet.Compression(&parquet.Snappy),
	)
	if _, err := writer.Write(Records(run)); err != nil {
		file.Close()
		return fmt.Errorf("write parquet records: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}
