// Package analytics computes headline metrics and report series over a
// (possibly filtered) sales batch. Everything here is read-only: input
// tables are never mutated, and sums skip missing revenue cells.
package analytics

import (
	"sort"

	"salespulse/internal/dataset"
	"salespulse/pkg/contracts/domain"
)

// Headline returns total revenue, order count, and average order value.
// Average is 0 for an empty table rather than a divide-by-zero fault.
func Headline(t *dataset.Table) (revenue float64, orders int, avg float64) {
	orders = t.NumRows()
	for i := 0; i < t.NumRows(); i++ {
		if r, ok := t.At(i, "revenue").Float(); ok {
			revenue += r
		}
	}
	if orders > 0 {
		avg = revenue / float64(orders)
	}
	return revenue, orders, avg
}

// YearlyRevenue sums revenue per derived year.
func YearlyRevenue(t *dataset.Table) map[int]float64 {
	out := make(map[int]float64)
	for i := 0; i < t.NumRows(); i++ {
		y, ok := t.At(i, "year").Int()
		if !ok {
			continue
		}
		r, _ := t.At(i, "revenue").Float()
		out[int(y)] += r
	}
	return out
}

// YoYGrowth returns the revenue growth percentage of the latest year
// against the immediately preceding calendar year. Returns 0 when the
// previous year is absent or its revenue is exactly 0; that is a
// divide-by-zero guard, not a claim of flat growth.
func YoYGrowth(t *dataset.Table) float64 {
	yearly := YearlyRevenue(t)
	if len(yearly) == 0 {
		return 0
	}
	latest := 0
	for y := range yearly {
		if y > latest {
			latest = y
		}
	}
	prev, ok := yearly[latest-1]
	if !ok || prev == 0 {
		return 0
	}
	return (yearly[latest] - prev) / prev * 100
}

// MonthOrder returns the sorted unique month names present in the batch.
// This is the reindexing order for the monthly trend and the option list
// for the month filter; it is derived from the full dataset so filtered
// views keep a stable axis.
func MonthOrder(t *dataset.Table) []string {
	seen := make(map[string]struct{})
	var months []string
	for i := 0; i < t.NumRows(); i++ {
		m, ok := t.At(i, "month_name").Str()
		if !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// Years returns the sorted unique derived years present in the batch.
func Years(t *dataset.Table) []int {
	seen := make(map[int]struct{})
	var years []int
	for i := 0; i < t.NumRows(); i++ {
		y, ok := t.At(i, "year").Int()
		if !ok {
			continue
		}
		if _, dup := seen[int(y)]; dup {
			continue
		}
		seen[int(y)] = struct{}{}
		years = append(years, int(y))
	}
	sort.Ints(years)
	return years
}

// MonthlyTrend sums revenue by month name and reindexes the result into
// the given month order. Months with no matching rows appear with zero
// revenue.
func MonthlyTrend(t *dataset.Table, order []string) []domain.SeriesPoint {
	sums := make(map[string]float64)
	for i := 0; i < t.NumRows(); i++ {
		m, ok := t.At(i, "month_name").Str()
		if !ok {
			continue
		}
		r, _ := t.At(i, "revenue").Float()
		sums[m] += r
	}
	points := make([]domain.SeriesPoint, len(order))
	for i, m := range order {
		points[i] = domain.SeriesPoint{Label: m, Value: sums[m]}
	}
	return points
}

// TopByRevenue groups rows by the named column, sums revenue, and
// returns the top n groups in descending order. Ties keep the original
// group-appearance order via the stable sort.
func TopByRevenue(t *dataset.Table, column string, n int) []domain.SeriesPoint {
	sums := make(map[string]float64)
	var labels []string
	for i := 0; i < t.NumRows(); i++ {
		label, ok := t.At(i, column).Str()
		if !ok {
			continue
		}
		if _, seen := sums[label]; !seen {
			labels = append(labels, label)
		}
		r, _ := t.At(i, "revenue").Float()
		sums[label] += r
	}

	points := make([]domain.SeriesPoint, len(labels))
	for i, label := range labels {
		points[i] = domain.SeriesPoint{Label: label, Value: sums[label]}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})
	if len(points) > n {
		points = points[:n]
	}
	return points
}
