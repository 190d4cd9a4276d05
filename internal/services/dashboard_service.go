// Package services wires the pipeline, filter engine, aggregation
// engine, store and exporter behind the operations the presentation
// boundary consumes.
package services

import (
	"context"
	"log/slog"
	"sync"

	"salespulse/internal/analytics"
	"salespulse/internal/chart"
	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/filter"
	"salespulse/internal/ingest"
	"salespulse/internal/metrics"
	"salespulse/internal/pipeline"
	"salespulse/pkg/contracts/domain"
)

// Chart names served by the chart endpoint, matching the dashboard tabs.
const (
	ChartMonthlyTrend = "monthly_trend"
	ChartTopProducts  = "top_products"
	ChartStateRevenue = "state_revenue"
)

const previewRows = 5

// SalesStore is the persistence adapter contract the service needs.
type SalesStore interface {
	Replace(ctx context.Context, t *dataset.Table) error
	Load(ctx context.Context) (*dataset.Table, error)
}

// DashboardService runs the upload → normalize → persist → filter →
// aggregate flow for a session. All state lives behind explicit
// dependency injection; the only cache is the loader's single memoized
// batch.
type DashboardService struct {
	loader   *pipeline.Loader
	store    SalesStore // nil disables persistence
	exporter *exporter.Exporter
	pipeMet  *metrics.Pipeline
	logger   *slog.Logger

	mu    sync.Mutex
	batch *pipeline.Batch
}

// NewDashboardService composes the service. store and pipeMet may be nil.
func NewDashboardService(loader *pipeline.Loader, store SalesStore, exp *exporter.Exporter, pipeMet *metrics.Pipeline, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		loader:   loader,
		store:    store,
		exporter: exp,
		pipeMet:  pipeMet,
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// Upload ingests, normalizes and persists an uploaded file, replacing
// the session batch. A persistence failure is fatal for the upload.
func (s *DashboardService) Upload(ctx context.Context, filename string, data []byte) (*domain.UploadSummary, error) {
	format, err := ingest.DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	batch, err := s.loader.Load(ctx, data, format)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Replace(ctx, batch.Table); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.batch = batch
	s.mu.Unlock()

	if s.pipeMet != nil {
		s.pipeMet.Observe(batch.Stats)
	}

	s.logger.InfoContext(ctx, "upload processed",
		slog.String("batch_id", batch.ID),
		slog.String("filename", filename),
		slog.Int("rows_loaded", batch.Stats.RowsOut),
		slog.Int("rows_dropped", batch.Stats.CriticalDropped))

	return s.summary(batch), nil
}

func (s *DashboardService) summary(batch *pipeline.Batch) *domain.UploadSummary {
	head := batch.Table.Head(previewRows)
	preview := make([][]string, head.NumRows())
	for i := range preview {
		row := make([]string, head.NumCols())
		for j, v := range head.Row(i) {
			row[j] = v.Format()
		}
		preview[i] = row
	}

	return &domain.UploadSummary{
		BatchID:           batch.ID,
		RowsLoaded:        batch.Stats.RowsOut,
		DuplicatesRemoved: batch.Stats.DuplicatesRemoved,
		RowsDropped:       batch.Stats.CriticalDropped,
		ParseWarnings:     batch.Stats.ParseWarnings,
		Options:           s.options(batch.Table),
		PreviewColumns:    head.Columns(),
		PreviewRows:       preview,
	}
}

func (s *DashboardService) options(t *dataset.Table) domain.FilterOptions {
	min, max := filter.DateBounds(t)
	return domain.FilterOptions{
		Years:   analytics.Years(t),
		Months:  analytics.MonthOrder(t),
		MinDate: min.Format("2006-01-02"),
		MaxDate: max.Format("2006-01-02"),
	}
}

// current returns the session batch, falling back to the persisted copy
// when the session has none.
func (s *DashboardService) current(ctx context.Context) (*dataset.Table, error) {
	s.mu.Lock()
	batch := s.batch
	s.mu.Unlock()
	if batch != nil {
		return batch.Table, nil
	}

	if s.store == nil {
		return nil, apperrors.ErrNoData
	}
	t, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if t.NumRows() == 0 {
		return nil, apperrors.ErrNoData
	}
	s.logger.InfoContext(ctx, "rows loaded from database",
		slog.Int("rows", t.NumRows()))
	return t, nil
}

// Dashboard computes the headline metrics and the three report series
// for the given filter state. YoY growth is computed over the whole
// batch; the other metrics over the filtered view. The monthly trend is
// reindexed on the full batch's month order so zero months still appear.
func (s *DashboardService) Dashboard(ctx context.Context, spec filter.Spec) (*domain.DashboardData, error) {
	full, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	view, err := filter.Apply(full, spec)
	if err != nil {
		return nil, err
	}

	revenue, orders, avg := analytics.Headline(view)

	return &domain.DashboardData{
		Metrics: domain.DashboardMetrics{
			TotalRevenue:  revenue,
			TotalOrders:   orders,
			AvgOrderValue: avg,
			YoYGrowthPct:  analytics.YoYGrowth(full),
		},
		MonthlyTrend: analytics.MonthlyTrend(view, analytics.MonthOrder(full)),
		TopProducts:  analytics.TopByRevenue(view, "Product Name", 10),
		StateRevenue: analytics.TopByRevenue(view, "State", 10),
	}, nil
}

// Options returns the selectable filter values for the current batch.
func (s *DashboardService) Options(ctx context.Context) (*domain.FilterOptions, error) {
	t, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	opts := s.options(t)
	return &opts, nil
}

// ExportCSV serializes the filtered view as delimited text.
func (s *DashboardService) ExportCSV(ctx context.Context, spec filter.Spec) ([]byte, error) {
	view, err := s.filteredView(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.exporter.CSV(view)
}

// ExportXLSX serializes the filtered view as a workbook.
func (s *DashboardService) ExportXLSX(ctx context.Context, spec filter.Spec) ([]byte, error) {
	view, err := s.filteredView(ctx, spec)
	if err != nil {
		return nil, err
	}
	return s.exporter.XLSX(view)
}

// ChartPNG renders the named dashboard chart for the filtered view.
func (s *DashboardService) ChartPNG(ctx context.Context, name string, spec filter.Spec) ([]byte, error) {
	full, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	view, err := filter.Apply(full, spec)
	if err != nil {
		return nil, err
	}

	switch name {
	case ChartMonthlyTrend:
		points := analytics.MonthlyTrend(view, analytics.MonthOrder(full))
		return s.exporter.ChartPNG(chart.Line("monthly revenue trend", points))
	case ChartTopProducts:
		points := analytics.TopByRevenue(view, "Product Name", 10)
		return s.exporter.ChartPNG(chart.Bar("top 10 products by revenue", points))
	case ChartStateRevenue:
		points := analytics.TopByRevenue(view, "State", 10)
		return s.exporter.ChartPNG(chart.Bar("revenue by state", points))
	default:
		return nil, apperrors.NewNotFoundError("chart " + name)
	}
}

func (s *DashboardService) filteredView(ctx context.Context, spec filter.Spec) (*dataset.Table, error) {
	full, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(full, spec)
}
