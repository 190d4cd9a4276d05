// Command salesreport normalizes a sales file from the command line,
// optionally persists it, and writes the filtered export and chart
// files a dashboard session would serve.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salespulse/internal/exporter"
	"salespulse/internal/filter"
	"salespulse/internal/pipeline"
	"salespulse/internal/services"
	"salespulse/internal/store"
)

func main() {
	in := flag.String("in", "", "input sales file (.csv or .xlsx)")
	out := flag.String("out", "reports", "output directory for exports")
	dbPath := flag.String("db", "", "sqlite database path (empty disables persistence)")
	year := flag.String("year", filter.All, "year filter (\"all\" or a year)")
	month := flag.String("month", filter.All, "month filter (\"all\" or e.g. \"Jan\")")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: salesreport -in sales.csv [-out dir] [-db sales.db]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), logger, *in, *out, *dbPath, *year, *month); err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, in, out, dbPath, year, month string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var salesStore services.SalesStore
	if dbPath != "" {
		st, err := store.Open(dbPath, store.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		salesStore = st
	}

	loader := pipeline.NewLoader(pipeline.NewNormalizer(logger), logger)
	service := services.NewDashboardService(loader, salesStore, exporter.New(logger), nil, logger)

	summary, err := service.Upload(ctx, filepath.Base(in), data)
	if err != nil {
		return err
	}
	logger.Info("file processed",
		slog.String("batch_id", summary.BatchID),
		slog.Int("rows_loaded", summary.RowsLoaded),
		slog.Int("rows_dropped", summary.RowsDropped))

	spec := filter.Spec{Year: year, MonthName: month}

	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	csvBytes, err := service.ExportCSV(ctx, spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, "filtered_data.csv"), csvBytes, 0644); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}

	xlsxBytes, err := service.ExportXLSX(ctx, spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, "filtered_data.xlsx"), xlsxBytes, 0644); err != nil {
		return fmt.Errorf("write xlsx export: %w", err)
	}

	for _, name := range []string{
		services.ChartMonthlyTrend,
		services.ChartTopProducts,
		services.ChartStateRevenue,
	} {
		pngBytes, err := service.ChartPNG(ctx, name, spec)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(out, name+".png"), pngBytes, 0644); err != nil {
			return fmt.Errorf("write chart %s: %w", name, err)
		}
	}

	logger.Info("reports written", slog.String("dir", out))
	return nil
}
