// Package exporter serializes filtered views and rendered charts into
// downloadable byte streams: delimited text, xlsx workbooks, and PNG.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

// SheetName is the single sheet of exported workbooks.
const SheetName = "filtered_data"

// Exporter produces export byte streams from tables and charts.
type Exporter struct {
	logger *slog.Logger
}

// New creates an exporter.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger.With(slog.String("component", "exporter"))}
}

// CSV renders the table as UTF-8 delimited text with a BOM prefix so
// Excel recognizes the encoding.
func (e *Exporter) CSV(t *dataset.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(&buf)
	if err := writer.Write(t.Columns()); err != nil {
		return nil, apperrors.NewExportError("failed to write header row", err)
	}
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = v.Format()
		}
		if err := writer.Write(record); err != nil {
			return nil, apperrors.NewExportError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.NewExportError("failed to flush csv", err)
	}

	e.logger.Debug("csv export rendered",
		slog.Int("rows", t.NumRows()),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// XLSX renders the table as a workbook with one sheet named
// "filtered_data". Missing cells are left empty.
func (e *Exporter) XLSX(t *dataset.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, apperrors.NewExportError("failed to name sheet", err)
	}

	for j, name := range t.Columns() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return nil, apperrors.NewExportError("failed to map header cell", err)
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return nil, apperrors.NewExportError("failed to write header cell", err)
		}
	}

	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			if v.IsMissing() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, apperrors.NewExportError("failed to map data cell", err)
			}
			if err := f.SetCellValue(SheetName, cell, cellValue(v)); err != nil {
				return nil, apperrors.NewExportError("failed to write data cell", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewExportError("failed to serialize workbook", err)
	}

	e.logger.Debug("xlsx export rendered",
		slog.Int("rows", t.NumRows()),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// ChartPNG encodes a rendered chart image as PNG bytes.
func (e *Exporter) ChartPNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.NewExportError("failed to encode chart png", err)
	}
	return buf.Bytes(), nil
}

// cellValue maps a dataset value to the native type excelize stores.
func cellValue(v dataset.Value) interface{} {
	switch v.Kind() {
	case dataset.KindFloat:
		f, _ := v.Float()
		return f
	case dataset.KindInt:
		i, _ := v.Int()
		return i
	case dataset.KindTime:
		return v.Format()
	default:
		s, _ := v.Str()
		return s
	}
}
