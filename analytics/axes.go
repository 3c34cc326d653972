package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/salesanalytics/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Quarters is the fiscal quarter axis
var Quarters = []int{1, 2, 3, 4}

// Months is the calendar month axis
var Months = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

var labelOverrides = map[string]string{
	models.WinCategoryGCP: "GCP",
	models.WinCategoryDA:  "DA",
	"gcp-core":            "GCP Core",
}

// FillInts returns one value per axis entry, taking found values and
// calling zero for the rest.
func FillInts[T any](axis []int, found map[int]T, zero func(int) T) []T {
	out := make([]T, 0, len(axis))
	for _, k := range axis {
		if v, ok := found[k]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, zero(k))
	}
	return out
}

// FillKeys is FillInts for string axes
func FillKeys[T any](axis []string, found map[string]T, zero func(string) T) []T {
	out := make([]T, 0, len(axis))
	for _, k := range axis {
		if v, ok := found[k]; ok {
			out = append(out, v)
			continue
		}
		out = append(out, zero(k))
	}
	return out
}

// QuarterLabel renders 1 as "Q1"
func QuarterLabel(q int) string {
	return "Q" + strconv.Itoa(q)
}

// QuarterLabels renders the quarter axis
func QuarterLabels() []string {
	labels := make([]string, len(Quarters))
	for i, q := range Quarters {
		labels[i] = QuarterLabel(q)
	}
	return labels
}

// MonthLabel renders 1 as "Jan"
func MonthLabel(m int) string {
	return time.Month(m).String()[:3]
}

// Label renders an enumeration value for display, e.g. "closed-won" as "Closed-Won"
func Label(value string) string {
	if l, ok := labelOverrides[value]; ok {
		return l
	}
	caser := cases.Title(language.English)

	var b strings.Builder
	start := 0
	for i, r := range value {
		if r == '-' || r == '/' || r == ' ' {
			b.WriteString(caser.String(value[start:i]))
			b.WriteRune(r)
			start = i + 1
		}
	}
	b.WriteString(caser.String(value[start:]))
	return b.String()
}

// QuarterBounds returns [start, end) of a fiscal quarter in UTC
func QuarterBounds(year, quarter int) (time.Time, time.Time) {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, 0)
}

// YearBounds returns [Jan 1, next Jan 1) of a year in UTC
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
