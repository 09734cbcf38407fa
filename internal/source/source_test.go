package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goparquet "github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/gyeh/hospstats/internal/config"
	"github.com/gyeh/hospstats/internal/model"
)

func writeParquet[T any](t *testing.T, path string, rows []T) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	w := goparquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
}

func TestRequest_Stem(t *testing.T) {
	got := Request{Group: GroupHospitalization, Region: "sp", Year: 2025, Month: 5}.Stem()
	if got != "RDSP2505" {
		t.Errorf("stem = %q, want RDSP2505", got)
	}
	got = Request{Group: GroupBeds, Region: "MG", Year: 2009, Month: 11}.Stem()
	if got != "LTMG0911" {
		t.Errorf("stem = %q, want LTMG0911", got)
	}
}

func TestMatchStem(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"RDSP2505.parquet", true},
		{"rdsp2505.parquet", true},
		{"RDSP2505a.parquet", true},
		{"RDSP2505b.csv", true},
		{"RDSP2505.dbc", false},
		{"RDSP2505ab.parquet", false},
		{"RDSP25051.parquet", false},
		{"RDSP2506.parquet", false},
		{"LTSP2505.parquet", false},
	}
	for _, tt := range tests {
		if _, ok := matchStem(tt.name, "RDSP2505"); ok != tt.want {
			t.Errorf("matchStem(%q) = %v, want %v", tt.name, ok, tt.want)
		}
	}
}

func TestDir_FetchSplitParquet(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "RDSP2505a.parquet"), []model.DischargeRow{
		{FacilityCode: 2142376, Procedure: "0303010037", LengthOfStay: 4, Death: 1, ICUDays: 2, Age: "80", AgeUnit: "4", ICUMarker: "74"},
		{FacilityCode: 2142376, Procedure: "0415010012", LengthOfStay: 3},
	})
	writeParquet(t, filepath.Join(dir, "RDSP2505b.parquet"), []model.DischargeRow{
		{FacilityCode: 9999999, Procedure: "0303010037", LengthOfStay: 1},
	})
	writeParquet(t, filepath.Join(dir, "RDSP2506.parquet"), []model.DischargeRow{
		{FacilityCode: 2142376, LengthOfStay: 1},
	})

	d := NewDir(dir, zerolog.Nop())
	tbl, err := d.Fetch(context.Background(), Request{Group: GroupHospitalization, Region: "SP", Year: 2025, Month: 5})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}
	for _, col := range []string{"CNES", "PROC_REA", "DIAS_PERM", "MORTE", "UTI_MES_TO", "IDADE", "COD_IDADE", "MARCA_UTI"} {
		if tbl.Index(col) < 0 {
			t.Errorf("column %s missing from %v", col, tbl.Columns)
		}
	}
	if got := tbl.Cell(0, tbl.Index("CNES")); got != "2142376" {
		t.Errorf("CNES = %q", got)
	}
	if got := tbl.Cell(0, tbl.Index("MARCA_UTI")); got != "74" {
		t.Errorf("MARCA_UTI = %q", got)
	}
	if got := tbl.Cell(2, tbl.Index("CNES")); got != "9999999" {
		t.Errorf("second part CNES = %q", got)
	}
}

func TestDir_FetchPartitionedDirectory(t *testing.T) {
	dir := t.TempDir()
	ds := filepath.Join(dir, "LTSP2505.parquet")
	if err := os.Mkdir(ds, 0o755); err != nil {
		t.Fatal(err)
	}
	writeParquet(t, filepath.Join(ds, "part-0.parquet"), []model.BedRow{
		{FacilityCode: "2142376", BedType: "74", Existing: 10, SUS: 10},
	})
	writeParquet(t, filepath.Join(ds, "part-1.parquet"), []model.BedRow{
		{FacilityCode: "2142376", BedType: "03", Existing: 50, SUS: 40},
	})

	d := NewDir(dir, zerolog.Nop())
	tbl, err := d.Fetch(context.Background(), Request{Group: GroupBeds, Region: "SP", Year: 2025, Month: 5})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("rows = %d, want 2", tbl.Len())
	}
}

func TestDir_NoFiles(t *testing.T) {
	d := NewDir(t.TempDir(), zerolog.Nop())
	_, err := d.Fetch(context.Background(), Request{Group: GroupHospitalization, Region: "SP", Year: 2025, Month: 1})
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
}

func TestDir_MissingRoot(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	_, err := d.Fetch(context.Background(), Request{Group: GroupBeds, Region: "SP", Year: 2025, Month: 1})
	if err == nil || errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want a listing error", err)
	}
}

func TestReadCSV_Latin1Semicolon(t *testing.T) {
	text := "cnes;codleito;ds_leito;qt_exist\n2142376;74;UTI ADULTO I;10\n2142376;03;CIRÚRGICO;\"45\"\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "LTSP2505.csv")
	if err := os.WriteFile(path, []byte(latin), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if strings.Join(tbl.Columns, ",") != "CNES,CODLEITO,DS_LEITO,QT_EXIST" {
		t.Errorf("columns = %v", tbl.Columns)
	}
	if got := tbl.Cell(1, 2); got != "CIRÚRGICO" {
		t.Errorf("decoded = %q, want CIRÚRGICO", got)
	}
	if got := tbl.Cell(1, 3); got != "45" {
		t.Errorf("quantity = %q", got)
	}
}

func TestReadCSV_UTF8BOMComma(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RDSP2505.csv")
	body := "\xEF\xBB\xBFCNES,MORTE,DIAS_PERM\n2142376,1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Columns[0] != "CNES" {
		t.Errorf("first column = %q, BOM not stripped", tbl.Columns[0])
	}
	if tbl.Len() != 1 || tbl.Cell(0, 2) != "" {
		t.Errorf("short row should pad with empty cells: %v", tbl.Rows)
	}
}

func TestValidateHeader(t *testing.T) {
	res := ValidateHeader(GroupBeds, []string{"CNES", "CODLEITO", "QT_SUS"}, config.DefaultRules())
	if len(res) != 3 {
		t.Fatalf("resolutions = %d, want 3", len(res))
	}
	for _, r := range res {
		if r.Column == "" {
			t.Errorf("field %s did not resolve", r.Field)
		}
	}
	res = ValidateHeader(GroupHospitalization, []string{"CNES", "COD_IDADE"}, config.DefaultRules())
	for _, r := range res {
		if r.Field == "age" && r.Column != "" {
			t.Errorf("age resolved to %q", r.Column)
		}
	}
}
