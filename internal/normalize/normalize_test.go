package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/hospstats/internal/model"
)

func TestFacilityID(t *testing.T) {
	cases := map[string]string{
		"2142376":    "2142376",
		" 2142376 ":  "2142376",
		"02142376":   "2142376",
		"2142376.0":  "2142376",
		"27014":      "0027014",
		"0027014":    "0027014",
		"":           "",
		"not-a-code": "",
	}
	for in, want := range cases {
		if got := FacilityID(in); got != want {
			t.Errorf("FacilityID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProcedureCode(t *testing.T) {
	cases := map[string]string{
		"0303010037":   "0303010037",
		" 0415010012 ": "0415010012",
		"303010037.0":  "303010037",
		"03.03.01":     "030301",
		"":             "",
	}
	for in, want := range cases {
		if got := ProcedureCode(in); got != want {
			t.Errorf("ProcedureCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestICUMarker(t *testing.T) {
	cases := map[string]string{
		"74":  "74",
		"0":   "",
		"00":  "",
		"":    "",
		"8":   "08",
		"81 ": "81",
	}
	for in, want := range cases {
		if got := ICUMarker(in); got != want {
			t.Errorf("ICUMarker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInt(t *testing.T) {
	cases := []struct {
		in   string
		def  int64
		want int64
	}{
		{"12", 0, 12},
		{" 7 ", 0, 7},
		{"3.9", 0, 3},
		{"3,5", 0, 3},
		{"", -1, -1},
		{"abc", 999, 999},
		{"NaN", 0, 0},
		{"1e30", 7, 7},
		{"-1e30", 7, 7},
		{"9.2e18", 0, 9200000000000000000},
	}
	for _, c := range cases {
		if got := Int(c.in, c.def); got != c.want {
			t.Errorf("Int(%q, %d) = %d, want %d", c.in, c.def, got, c.want)
		}
	}
	if got := NonNegative("-4"); got != 0 {
		t.Errorf("NonNegative(-4) = %d, want 0", got)
	}
}

func TestFlag(t *testing.T) {
	for _, in := range []string{"1", "S", "true", "1.0"} {
		if !Flag(in) {
			t.Errorf("Flag(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"0", "", "N", "x"} {
		if Flag(in) {
			t.Errorf("Flag(%q) = true, want false", in)
		}
	}
}

func TestAgeYears(t *testing.T) {
	cases := []struct {
		age, unit string
		want      int
	}{
		{"40", "4", 40},
		{"40", "", 40},
		{"5", "3", 0},
		{"20", "2", 0},
		{"3", "5", 103},
		{"", "4", model.UnknownAge},
		{"abc", "", model.UnknownAge},
		{"-2", "", model.UnknownAge},
	}
	for _, c := range cases {
		if got := AgeYears(c.age, c.unit); got != c.want {
			t.Errorf("AgeYears(%q, %q) = %d, want %d", c.age, c.unit, got, c.want)
		}
	}
}

func TestRound(t *testing.T) {
	if got := Round(500.0/60.0, 2); got != 8.33 {
		t.Errorf("Round = %v, want 8.33", got)
	}
}

func TestFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("FileHash = %s, want %s", got, want)
	}
}
