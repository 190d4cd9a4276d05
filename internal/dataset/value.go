package dataset

import (
	"strconv"
	"time"
)

// Kind identifies the concrete type held by a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindFloat
	KindInt
	KindTime
)

// Value is a single cell. Missing is an explicit state rather than a NaN
// sentinel, so every arithmetic consumer has to decide its missing-operand
// policy up front.
type Value struct {
	kind Kind
	str  string
	num  float64
	i    int64
	ts   time.Time
}

// Missing returns the explicit "no valid value" cell.
func Missing() Value { return Value{} }

// String wraps a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Float wraps a numeric cell.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

// Int wraps an integer cell.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Time wraps a calendar date cell.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Kind returns the concrete kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing state.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Str returns the string payload. The second return is false for
// non-string kinds.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Float returns the numeric payload, coercing integer cells.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.num, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Int returns the integer payload, truncating float cells.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int64(v.num), true
	}
	return 0, false
}

// Time returns the date payload.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.ts, true
}

// Equal reports exact equality of kind and payload. Used by duplicate
// removal, which must only collapse fully identical rows.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindMissing:
		return true
	case KindString:
		return v.str == o.str
	case KindFloat:
		return v.num == o.num
	case KindInt:
		return v.i == o.i
	case KindTime:
		return v.ts.Equal(o.ts)
	}
	return false
}

// Format renders the value for delimited-text output. Missing renders as
// the empty string.
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindTime:
		return v.ts.Format("2006-01-02")
	}
	return ""
}
