// mkfixture writes synthetic monthly extracts (RD hospitalization and LT bed
// inventory) for one facility, in the file layout read by hospstats.
// Usage: go run ./cmd/mkfixture --out testdata --region SP --facility 2142376 --year 2025 --months 5,6,7,8
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/hospstats/internal/model"
	"github.com/gyeh/hospstats/internal/source"
)

// otherFacility is written alongside the target so the facility filter has
// something to drop.
const otherFacility = 9999999

var procedures = []struct {
	code   string
	weight int
}{
	{"0303010037", 30}, // clinical treatment
	{"0303140151", 15},
	{"0415010012", 20}, // surgery
	{"0407030026", 10},
	{"0802010083", 5},  // adult ICU daily rate
	{"0802010121", 3},  // neonatal ICU daily rate
	{"0802010091", 2},  // pediatric ICU daily rate
	{"0310010039", 15}, // obstetrics, neither group
}

func main() {
	out := flag.String("out", "testdata", "output directory")
	region := flag.String("region", "SP", "region code")
	facility := flag.Int64("facility", 2142376, "facility registry code")
	year := flag.Int("year", 2025, "year")
	monthList := flag.String("months", "5,6,7,8", "comma-separated months")
	rows := flag.Int("rows", 400, "hospitalization rows per month for the facility")
	split := flag.Bool("split", false, "write each RD month as two files (a, b)")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	months, err := parseMonths(*monthList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "months: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(*seed, uint64(*facility)))
	for _, m := range months {
		rd := source.Request{Group: source.GroupHospitalization, Region: *region, Year: *year, Month: m}
		lt := source.Request{Group: source.GroupBeds, Region: *region, Year: *year, Month: m}

		discharges := dischargeRows(rng, *facility, *rows)
		if *split {
			half := len(discharges) / 2
			mustWrite(filepath.Join(*out, rd.Stem()+"a.parquet"), discharges[:half])
			mustWrite(filepath.Join(*out, rd.Stem()+"b.parquet"), discharges[half:])
		} else {
			mustWrite(filepath.Join(*out, rd.Stem()+".parquet"), discharges)
		}
		mustWrite(filepath.Join(*out, lt.Stem()+".parquet"), bedRows(*facility))

		fmt.Printf("Wrote %s (%d rows) and %s\n", rd.Stem(), len(discharges), lt.Stem())
	}
}

func parseMonths(s string) ([]int, error) {
	var months []int
	for _, p := range strings.Split(s, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return model.NormalizeMonths(months)
}

func dischargeRows(rng *rand.Rand, facility int64, n int) []model.DischargeRow {
	total := 0
	for _, p := range procedures {
		total += p.weight
	}
	pick := func() string {
		r := rng.IntN(total)
		for _, p := range procedures {
			if r < p.weight {
				return p.code
			}
			r -= p.weight
		}
		return procedures[0].code
	}

	rows := make([]model.DischargeRow, 0, n+n/10)
	for i := 0; i < n+n/10; i++ {
		row := model.DischargeRow{
			FacilityCode: facility,
			Procedure:    pick(),
			LengthOfStay: int32(rng.IntN(12)),
			Age:          strconv.Itoa(rng.IntN(90)),
			AgeUnit:      "4",
			ICUMarker:    "00",
		}
		if i >= n {
			row.FacilityCode = otherFacility
		}
		if rng.IntN(100) < 4 {
			row.Death = 1
		}
		if rng.IntN(100) < 12 && row.LengthOfStay > 0 {
			row.ICUDays = int32(rng.IntN(int(row.LengthOfStay)) + 1)
			switch rng.IntN(4) {
			case 0:
				row.ICUMarker = "75"
			case 1:
				row.ICUMarker = "81"
			case 2:
				row.Age, row.AgeUnit = strconv.Itoa(rng.IntN(28)), "2"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func bedRows(facility int64) []model.BedRow {
	id := strconv.FormatInt(facility, 10)
	return []model.BedRow{
		{FacilityCode: id, BedType: "03", Existing: 60, SUS: 50},
		{FacilityCode: id, BedType: "33", Existing: 40, SUS: 40},
		{FacilityCode: id, BedType: "75", Existing: 10, SUS: 10},
		{FacilityCode: id, BedType: "81", Existing: 6, SUS: 6},
		{FacilityCode: id, BedType: "78", Existing: 4, SUS: 4},
		{FacilityCode: strconv.Itoa(otherFacility), BedType: "03", Existing: 200, SUS: 200},
	}
}

func mustWrite[T any](path string, rows []T) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	writer := goparquet.NewGenericWriter[T](f, goparquet.Compression(&goparquet.Snappy))
	if _, err := writer.Write(rows); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}
}
