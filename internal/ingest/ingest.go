// Package ingest reads raw tabular uploads (delimited text or xlsx
// workbooks) into an untyped dataset.Table. Column names are preserved
// verbatim, including surrounding whitespace; cell contents are not
// validated here.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

// Format is the declared upload format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a filename extension to a Format. Anything other
// than .csv or .xlsx is an unsupported format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", apperrors.NewUnsupportedFormatError(filepath.Ext(filename))
	}
}

// Read parses the byte stream into a raw table according to the declared
// format.
func Read(r io.Reader, format Format) (*dataset.Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, apperrors.NewUnsupportedFormatError(string(format))
	}
}

func readCSV(r io.Reader) (*dataset.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewIngestError("failed to read header row", err)
	}
	// Exports written for Excel often lead with a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}

	table := dataset.New(header)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewIngestError(fmt.Sprintf("failed to read row %d", line), err)
		}
		table.AppendRow(cellsToValues(record, table.NumCols()))
		line++
	}

	slog.Debug("csv ingested",
		slog.Int("columns", table.NumCols()),
		slog.Int("rows", table.NumRows()))

	return table, nil
}

func readXLSX(r io.Reader) (*dataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewIngestError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewIngestError("workbook has no sheets", nil)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewIngestError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return dataset.New(nil), nil
	}

	table := dataset.New(rows[0])
	for _, row := range rows[1:] {
		table.AppendRow(cellsToValues(row, table.NumCols()))
	}

	slog.Debug("workbook ingested",
		slog.String("sheet", sheet),
		slog.Int("columns", table.NumCols()),
		slog.Int("rows", table.NumRows()))

	return table, nil
}

// cellsToValues converts raw string cells to values. Truly empty cells
// become missing; whitespace-only cells stay strings so the later trim
// step sees them, matching delimited-text semantics where only an empty
// field means "no value".
func cellsToValues(cells []string, width int) []dataset.Value {
	values := make([]dataset.Value, width)
	for i := range values {
		if i >= len(cells) || cells[i] == "" {
			values[i] = dataset.Missing()
			continue
		}
		values[i] = dataset.String(cells[i])
	}
	return values
}

// ReadBytes is a convenience wrapper over Read for in-memory uploads.
func ReadBytes(data []byte, format Format) (*dataset.Table, error) {
	return Read(bytes.NewReader(data), format)
}
