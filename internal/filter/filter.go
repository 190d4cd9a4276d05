// Package filter applies user-selected year, month and date-range
// predicates to a normalized batch, producing an independent view.
//
// The year and month predicates compare against the derived year and
// month_name fields; the date-range predicate always re-derives from the
// Order Date column. The two stages are intentionally never reconciled —
// that matches the behavior analytics consumers already depend on.
package filter

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

// All selects every value of a categorical predicate.
const All = "all"

// Spec is the user-selected filter state.
type Spec struct {
	// Year is "all" or a four-digit year.
	Year string `json:"year" validate:"required"`
	// MonthName is "all" or a 3-letter English month abbreviation.
	MonthName string `json:"month_name" validate:"required,oneof=all Jan Feb Mar Apr May Jun Jul Aug Sep Oct Nov Dec"`
	// From and To bound Order Date inclusively. Zero values leave the
	// corresponding end open.
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Default selects everything.
func Default() Spec {
	return Spec{Year: All, MonthName: All}
}

var validate = validator.New()

// Validate checks the spec for well-formedness.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if s.Year != All {
		if _, err := strconv.Atoi(s.Year); err != nil {
			return apperrors.NewValidationError("year must be \"all\" or an integer")
		}
	}
	if !s.From.IsZero() && !s.To.IsZero() && s.To.Before(s.From) {
		return apperrors.NewValidationError("date range end precedes start")
	}
	return nil
}

// Apply returns the subset of rows matching all predicates conjunctively.
// The input batch is never mutated.
func Apply(t *dataset.Table, spec Spec) (*dataset.Table, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var wantYear int64
	if spec.Year != All {
		y, _ := strconv.Atoi(spec.Year)
		wantYear = int64(y)
	}

	var keep []int
	for i := 0; i < t.NumRows(); i++ {
		if spec.Year != All {
			y, ok := t.At(i, "year").Int()
			if !ok || y != wantYear {
				continue
			}
		}
		if spec.MonthName != All {
			m, ok := t.At(i, "month_name").Str()
			if !ok || m != spec.MonthName {
				continue
			}
		}
		if !inRange(t.At(i, "Order Date"), spec.From, spec.To) {
			continue
		}
		keep = append(keep, i)
	}
	return t.Select(keep), nil
}

// inRange checks Order Date against the inclusive bounds. Rows with a
// missing date fail a bounded range silently.
func inRange(v dataset.Value, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	d, ok := v.Time()
	if !ok {
		return false
	}
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// DateBounds returns the min and max Order Date of the batch. An empty
// table, or one with no parseable dates, falls back to the current date
// for both bounds.
func DateBounds(t *dataset.Table) (time.Time, time.Time) {
	var min, max time.Time
	for i := 0; i < t.NumRows(); i++ {
		d, ok := t.At(i, "Order Date").Time()
		if !ok {
			continue
		}
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
	}
	today := time.Now().Truncate(24 * time.Hour)
	if min.IsZero() {
		min = today
	}
	if max.IsZero() {
		max = today
	}
	return min, max
}
