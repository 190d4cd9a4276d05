// Package pipeline implements the data cleaning and derivation pipeline
// that turns a raw ingested table into a normalized sales batch, plus a
// content-addressed loader that memoizes the result per upload.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"strconv"
	"time"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/schema"
)

// Stats summarizes what normalization did to a batch. Dropped-row counts
// are exposed for observability; individual cell failures are not.
type Stats struct {
	RowsIn            int
	RowsOut           int
	DuplicatesRemoved int
	CriticalDropped   int
	ParseWarnings     int
}

// Normalizer cleans raw tables into sales batches.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
	}
}

// nonNumeric matches every character stripped before numeric coercion of
// money-like cells. Keeping only digits, dot and minus handles currency
// symbols, thousands separators and stray text without a currency parser.
var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// dateLayouts are tried in order when parsing date cells. Anything that
// matches none of them becomes missing.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// Normalize runs the full cleaning sequence on a copy of raw and returns
// the normalized batch. The input table is never mutated. Returns an
// empty-result error when every row is dropped.
func (n *Normalizer) Normalize(ctx context.Context, raw *dataset.Table) (*dataset.Table, Stats, error) {
	t := raw.Clone()
	stats := Stats{RowsIn: t.NumRows()}

	n.trimColumnNames(t)
	stats.ParseWarnings += n.deriveRevenue(t)
	stats.ParseWarnings += n.deriveCalendar(t)
	n.trimTextCells(t)
	stats.ParseWarnings += n.coerceMoneyColumns(t)
	t, stats.DuplicatesRemoved = dropDuplicates(t)
	t, stats.CriticalDropped = dropMissingCritical(t)
	n.deriveUnitPrice(t)

	stats.RowsOut = t.NumRows()

	n.logger.InfoContext(ctx, "batch normalized",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_out", stats.RowsOut),
		slog.Int("duplicates_removed", stats.DuplicatesRemoved),
		slog.Int("critical_dropped", stats.CriticalDropped),
		slog.Int("parse_warnings", stats.ParseWarnings))

	if stats.RowsOut == 0 {
		return nil, stats, apperrors.NewEmptyResultError(
			fmt.Sprintf("all %d rows dropped during normalization", stats.RowsIn))
	}
	return t, stats, nil
}

// trimColumnNames strips surrounding whitespace from every column name
// so later exact-name lookups succeed even if the source had padding.
func (n *Normalizer) trimColumnNames(t *dataset.Table) {
	for i, name := range t.Columns() {
		if trimmed := strings.TrimSpace(name); trimmed != name {
			t.SetColumnName(i, trimmed)
		}
	}
}

// deriveRevenue adds the revenue column from "Total", numeric-coerced.
// Unparsable cells become missing, not errors.
func (n *Normalizer) deriveRevenue(t *dataset.Table) int {
	src, ok := t.ColumnIndex("Total")
	if !ok {
		return 0
	}
	rev := ensureColumn(t, "revenue")
	warnings := 0
	for i := 0; i < t.NumRows(); i++ {
		v, warned := parseMoney(t.Row(i)[src])
		if warned {
			warnings++
		}
		t.Set(i, rev, v)
	}
	return warnings
}

// deriveCalendar parses date columns and derives the calendar fields for
// rows with a valid order date. Unparseable dates become missing and the
// derived fields stay missing for that row.
func (n *Normalizer) deriveCalendar(t *dataset.Table) int {
	warnings := n.parseDateColumn(t, "Ship Date")

	src, ok := t.ColumnIndex("Order Date")
	if !ok {
		return warnings
	}
	warnings += n.parseDateColumn(t, "Order Date")

	yearCol := ensureColumn(t, "year")
	monthCol := ensureColumn(t, "month")
	monthNameCol := ensureColumn(t, "month_name")
	ymCol := ensureColumn(t, "ym")
	quarterCol := ensureColumn(t, "quarter")

	for i := 0; i < t.NumRows(); i++ {
		d, ok := t.Row(i)[src].Time()
		if !ok {
			continue
		}
		y, m := d.Year(), int(d.Month())
		t.Set(i, yearCol, dataset.Int(int64(y)))
		t.Set(i, monthCol, dataset.Int(int64(m)))
		t.Set(i, monthNameCol, dataset.String(d.Month().String()[:3]))
		t.Set(i, ymCol, dataset.String(fmt.Sprintf("%04d-%02d", y, m)))
		t.Set(i, quarterCol, dataset.String(fmt.Sprintf("%dQ%d", y, (m-1)/3+1)))
	}
	return warnings
}

func (n *Normalizer) parseDateColumn(t *dataset.Table, name string) int {
	col, ok := t.ColumnIndex(name)
	if !ok {
		return 0
	}
	warnings := 0
	for i := 0; i < t.NumRows(); i++ {
		v := t.Row(i)[col]
		if v.IsMissing() {
			continue
		}
		if _, ok := v.Time(); ok {
			continue
		}
		s, _ := v.Str()
		if d, ok := parseDate(strings.TrimSpace(s)); ok {
			t.Set(i, col, dataset.Time(d))
		} else {
			t.Set(i, col, dataset.Missing())
			warnings++
		}
	}
	return warnings
}

// trimTextCells strips surrounding whitespace on every text-typed cell.
func (n *Normalizer) trimTextCells(t *dataset.Table) {
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for j, v := range row {
			if s, ok := v.Str(); ok {
				t.Set(i, j, dataset.String(strings.TrimSpace(s)))
			}
		}
	}
}

// coerceMoneyColumns applies strip-then-parse to the fixed monetary and
// quantity column set. Absent columns are skipped silently.
func (n *Normalizer) coerceMoneyColumns(t *dataset.Table) int {
	warnings := 0
	for _, name := range schema.MoneyColumns() {
		col, ok := t.ColumnIndex(name)
		if !ok {
			continue
		}
		quantity := name == "Order Quantity"
		for i := 0; i < t.NumRows(); i++ {
			v, warned := parseMoney(t.Row(i)[col])
			if warned {
				warnings++
			}
			if quantity {
				if f, ok := v.Float(); ok {
					v = dataset.Int(int64(f))
				}
			}
			t.Set(i, col, v)
		}
	}
	return warnings
}

// dropDuplicates removes exact-duplicate rows, keeping the first
// occurrence in original order.
func dropDuplicates(t *dataset.Table) (*dataset.Table, int) {
	seen := make(map[string]struct{}, t.NumRows())
	var keep []int
	for i := 0; i < t.NumRows(); i++ {
		key := t.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	removed := t.NumRows() - len(keep)
	if removed == 0 {
		return t, 0
	}
	return t.Select(keep), removed
}

// dropMissingCritical removes rows where a critical field is missing,
// and rows with a negative order quantity. A table without a critical
// column at all drops every row.
func dropMissingCritical(t *dataset.Table) (*dataset.Table, int) {
	var keep []int
	for i := 0; i < t.NumRows(); i++ {
		valid := true
		for _, name := range schema.CriticalColumns() {
			v := t.At(i, name)
			if v.IsMissing() {
				valid = false
				break
			}
			if name == "Order Quantity" {
				if q, ok := v.Int(); !ok || q < 0 {
					valid = false
					break
				}
			}
		}
		if valid {
			keep = append(keep, i)
		}
	}
	dropped := t.NumRows() - len(keep)
	if dropped == 0 {
		return t, 0
	}
	return t.Select(keep), dropped
}

// deriveUnitPrice computes revenue / Order Quantity elementwise. Zero
// quantity or missing revenue yields a missing unit price, never a fault.
func (n *Normalizer) deriveUnitPrice(t *dataset.Table) {
	col := ensureColumn(t, "unit_price")
	for i := 0; i < t.NumRows(); i++ {
		rev, okRev := t.At(i, "revenue").Float()
		qty, okQty := t.At(i, "Order Quantity").Int()
		if !okRev || !okQty || qty == 0 {
			continue
		}
		t.Set(i, col, dataset.Float(rev/float64(qty)))
	}
}

// parseMoney applies the strip-non-numeric-then-parse rule to a cell.
// The second return reports a parse warning: the cell held something,
// but nothing numeric survived.
func parseMoney(v dataset.Value) (dataset.Value, bool) {
	if v.IsMissing() {
		return dataset.Missing(), false
	}
	if f, ok := v.Float(); ok {
		return dataset.Float(f), false
	}
	s, ok := v.Str()
	if !ok {
		return dataset.Missing(), true
	}
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return dataset.Missing(), true
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return dataset.Missing(), true
	}
	return dataset.Float(f), false
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ensureColumn returns the index of a derived column, creating it when
// absent and resetting it to missing when re-normalizing an already
// normalized table, so derivation stays a fixed point.
func ensureColumn(t *dataset.Table, name string) int {
	if col, ok := t.ColumnIndex(name); ok {
		for i := 0; i < t.NumRows(); i++ {
			t.Set(i, col, dataset.Missing())
		}
		return col
	}
	return t.AddColumn(name, dataset.Missing())
}
