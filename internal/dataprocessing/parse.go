package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"hmiscli/internal/table"
)

// DateLayout is the month/day/year layout of the exports
const DateLayout = "1/2/2006"

// parseDate parses an export date; zero padding is optional
func parseDate(s string) (time.Time, bool) {
	// some exports carry a time of day after the date
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// toDate converts a cell to a date cell. Dates pass through; strings are
// parsed; anything else, or an unparseable string, is null.
func toDate(v table.Value) (table.Value, bool) {
	switch v.Kind() {
	case table.KindNull:
		return v, true
	case table.KindTime:
		return v, true
	case table.KindString:
		if t, ok := parseDate(v.Str()); ok {
			return table.Time(t), true
		}
	}
	return table.Null(), false
}

// parseDates converts the named columns to dates in place and returns how
// many non-null cells could not be parsed
func parseDates(t *table.Table, names ...string) int {
	bad := 0
	for _, name := range names {
		col := t.Column(name)
		for i, v := range col {
			d, ok := toDate(v)
			if !ok {
				bad++
			}
			col[i] = d
		}
	}
	return bad
}

// parseNumber reads a numeric cell, tolerating currency symbols and
// thousands separators
func parseNumber(v table.Value) (table.Value, bool) {
	switch v.Kind() {
	case table.KindNull, table.KindFloat:
		return v, true
	case table.KindString:
		s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(v.Str())
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return table.Float(f), true
		}
	}
	return table.Null(), false
}

// parseNumbers converts the named columns to numbers in place and returns
// how many non-null cells could not be parsed
func parseNumbers(t *table.Table, names ...string) int {
	bad := 0
	for _, name := range names {
		col := t.Column(name)
		for i, v := range col {
			n, ok := parseNumber(v)
			if !ok {
				bad++
			}
			col[i] = n
		}
	}
	return bad
}

// nullDate erases cells equal to d
func nullDate(t *table.Table, name string, d time.Time) {
	col := t.Column(name)
	for i, v := range col {
		if at, ok := v.AsTime(); ok && at.Equal(d) {
			col[i] = table.Null()
		}
	}
}

// days returns b - a in days
func days(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// daysNonNegative is days(a, b) as a cell, null for a negative span or a
// missing end
func daysNonNegative(a, b table.Value) table.Value {
	from, ok1 := a.AsTime()
	to, ok2 := b.AsTime()
	if !ok1 || !ok2 {
		return table.Null()
	}
	d := days(from, to)
	if d < 0 {
		return table.Null()
	}
	return table.Float(d)
}

// wholeYears counts the complete years from birth to at
func wholeYears(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	return years
}
