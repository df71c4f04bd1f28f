package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the dynamic type held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindFloat
	KindBool
	KindTime
)

// DateLayout is the canonical rendering for date cells
const DateLayout = "2006-01-02"

// Value is a single nullable cell. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	f    float64
	b    bool
	t    time.Time
}

// Null returns the missing value
func Null() Value { return Value{} }

// String wraps a string cell
func String(s string) Value { return Value{kind: KindString, s: s} }

// Float wraps a numeric cell. NaN is stored as null.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindFloat, f: f}
}

// Int wraps an integer count as a numeric cell
func Int(i int) Value { return Value{kind: KindFloat, f: float64(i)} }

// Bool wraps a boolean cell
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time wraps a date cell. The zero time is stored as null.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Null()
	}
	return Value{kind: KindTime, t: t}
}

// Kind returns the dynamic type of the cell
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is missing
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsTrue reports whether the cell is the boolean true
func (v Value) IsTrue() bool { return v.kind == KindBool && v.b }

// Str returns the string payload, empty for other kinds
func (v Value) Str() string { return v.s }

// Num returns the numeric payload, zero for other kinds
func (v Value) Num() float64 { return v.f }

// Date returns the date payload, the zero time for other kinds
func (v Value) Date() time.Time { return v.t }

// AsString returns the string payload and whether the cell held a string
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsFloat returns the numeric payload and whether the cell held a number
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsTime returns the date payload and whether the cell held a date
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Equal reports whether two non-null values hold the same payload.
// Null never equals anything, including null.
func (v Value) Equal(o Value) bool {
	if v.kind == KindNull || v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}

// Key returns a map key that is stable across equal values.
// The second return is false for null.
func (v Value) Key() (string, bool) {
	switch v.kind {
	case KindString:
		return "s:" + v.s, true
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64), true
	case KindBool:
		return "b:" + strconv.FormatBool(v.b), true
	case KindTime:
		return "t:" + strconv.FormatInt(v.t.UnixNano(), 10), true
	}
	return "", false
}

// Less orders two values of the same kind. Nulls sort after everything.
func (v Value) Less(o Value) bool {
	if v.kind == KindNull {
		return false
	}
	if o.kind == KindNull {
		return true
	}
	if v.kind != o.kind {
		return v.kind < o.kind
	}
	switch v.kind {
	case KindString:
		return v.s < o.s
	case KindFloat:
		return v.f < o.f
	case KindBool:
		return !v.b && o.b
	case KindTime:
		return v.t.Before(o.t)
	}
	return false
}

// String renders the value for delimited output. Null renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindTime:
		return v.t.Format(DateLayout)
	}
	return ""
}

// GoString supports %#v in test failures
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "table.Null()"
	case KindString:
		return fmt.Sprintf("table.String(%q)", v.s)
	case KindFloat:
		return fmt.Sprintf("table.Float(%v)", v.f)
	case KindBool:
		return fmt.Sprintf("table.Bool(%v)", v.b)
	}
	return fmt.Sprintf("table.Time(%s)", v.t.Format(time.RFC3339))
}
