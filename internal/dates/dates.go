// Package dates parses the two date representations stored in the sales and purchase tables.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayFirstLayout is the layout written for purchasedAt and soldAt.
const DayFirstLayout = "02/01/2006 15:04:05"

var isoLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
}

// ParseDayFirst parses DD/MM/YYYY with an optional HH:mm[:ss] part in local time.
// It never fails: a missing or malformed part falls back to day 1, month 1,
// year 2000 and a zero clock.
func ParseDayFirst(s string) time.Time {
	datePart, timePart, _ := strings.Cut(strings.TrimSpace(s), " ")

	d := splitInts(datePart, "/", 3)
	day := orDefault(d[0], 1)
	month := orDefault(d[1], 1)
	year := orDefault(d[2], 2000)

	c := splitInts(strings.TrimSpace(timePart), ":", 3)
	return time.Date(year, time.Month(month), day, c[0], c[1], c[2], 0, time.Local)
}

// ParseISO parses RFC 3339 timestamps and the common ISO-8601 variants. Date-only
// values are UTC midnight; date-times without an offset are local time.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range isoLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("dates: %q is not an ISO-8601 date", s)
}

// ParseAny dispatches to ParseISO when s contains '-' or starts with a four digit
// year, and to ParseDayFirst otherwise.
func ParseAny(s string) (time.Time, error) {
	if LooksISO(s) {
		return ParseISO(s)
	}
	return ParseDayFirst(s), nil
}

// LooksISO reports whether s should be read as ISO-8601.
func LooksISO(s string) bool {
	if strings.Contains(s, "-") {
		return true
	}
	if len(s) < 4 {
		return false
	}
	for _, r := range s[:4] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatDayFirst renders t the way purchases and sales are stored.
func FormatDayFirst(t time.Time) string {
	return t.In(time.Local).Format(DayFirstLayout)
}

// MonthsAgo returns now minus months calendar months.
func MonthsAgo(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

func splitInts(s, sep string, n int) []int {
	out := make([]int, n)
	parts := strings.Split(s, sep)
	for i := 0; i < n && i < len(parts); i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err == nil {
			out[i] = v
		}
	}
	return out
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
