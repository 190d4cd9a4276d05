// Package domain holds the types shared between the analytics core and
// the presentation boundary.
package domain

// SeriesPoint is one ordered (label, value) pair of a report series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardMetrics are the headline scalars shown on the metric cards.
type DashboardMetrics struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalOrders   int     `json:"total_orders"`
	AvgOrderValue float64 `json:"avg_order_value"`
	YoYGrowthPct  float64 `json:"yoy_growth_pct"`
}

// DashboardData is the full payload the presentation layer renders for
// one filter state.
type DashboardData struct {
	Metrics      DashboardMetrics `json:"metrics"`
	MonthlyTrend []SeriesPoint    `json:"monthly_trend"`
	TopProducts  []SeriesPoint    `json:"top_products"`
	StateRevenue []SeriesPoint    `json:"state_revenue"`
}

// FilterOptions are the selectable values the sidebar widgets offer,
// derived from the current normalized batch.
type FilterOptions struct {
	Years   []int    `json:"years"`
	Months  []string `json:"months"`
	MinDate string   `json:"min_date"`
	MaxDate string   `json:"max_date"`
}

// UploadSummary reports the outcome of an ingested upload.
type UploadSummary struct {
	BatchID           string          `json:"batch_id"`
	RowsLoaded        int             `json:"rows_loaded"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
	RowsDropped       int             `json:"rows_dropped"`
	ParseWarnings     int             `json:"parse_warnings"`
	Options           FilterOptions   `json:"options"`
	PreviewColumns    []string        `json:"preview_columns"`
	PreviewRows       [][]string      `json:"preview_rows"`
}
