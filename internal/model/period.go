package model

import (
	"fmt"
	"sort"
	"time"
)

// Quadrimester returns the calendar months of quadrimester q (1..3).
func Quadrimester(q int) ([]int, error) {
	if q < 1 || q > 3 {
		return nil, fmt.Errorf("quadrimester must be 1, 2 or 3, got %d", q)
	}
	start := (q-1)*4 + 1
	return []int{start, start + 1, start + 2, start + 3}, nil
}

// NormalizeMonths sorts and de-duplicates months and rejects values outside 1..12.
func NormalizeMonths(months []int) ([]int, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("no months requested")
	}
	seen := make(map[int]bool, len(months))
	out := make([]int, 0, len(months))
	for _, m := range months {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("month %d out of range 1..12", m)
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Ints(out)
	return out, nil
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PeriodLabel formats a month as "MM/YY", the label used on report axes.
func PeriodLabel(year, month int) string {
	return fmt.Sprintf("%02d/%02d", month, year%100)
}
