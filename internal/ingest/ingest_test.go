package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "salespulse/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{filename: "sales.csv", want: FormatCSV},
		{filename: "SALES.CSV", want: FormatCSV},
		{filename: "q3 export.xlsx", want: FormatXLSX},
		{filename: "sales.xls", wantErr: true},
		{filename: "sales.json", wantErr: true},
		{filename: "sales", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV(t *testing.T) {
	data := " Order Number ,Address,Total\nORD-1,12 Main St,100\nORD-2,,250.5\n"

	table, err := Read(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{" Order Number ", "Address", "Total"}, table.Columns(),
		"header names are preserved verbatim")
	require.Equal(t, 2, table.NumRows())

	addr, ok := table.At(0, "Address").Str()
	require.True(t, ok)
	assert.Equal(t, "12 Main St", addr)
	assert.True(t, table.At(1, "Address").IsMissing(), "empty field reads as missing")
}

func TestReadCSV_ShortRowsPadded(t *testing.T) {
	data := "a,b,c\n1,2\n"

	table, err := Read(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	require.Equal(t, 1, table.NumRows())
	assert.True(t, table.At(0, "c").IsMissing())
}

func TestReadCSV_StripsBOM(t *testing.T) {
	data := "\xef\xbb\xbfOrder Number,Total\nORD-1,100\n"

	table, err := Read(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"Order Number", "Total"}, table.Columns())
}

func TestReadCSV_WhitespaceCellIsNotMissing(t *testing.T) {
	data := "Address,Total\n  ,100\n"

	table, err := Read(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)

	v := table.At(0, "Address")
	assert.False(t, v.IsMissing(), "whitespace-only cells stay strings until the pipeline trims them")
	s, _ := v.Str()
	assert.Equal(t, "  ", s)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Order Number", "Address", "Total"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"ORD-1", "12 Main St", 100}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"ORD-2", "9 Oak Ave", 250.5}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Read(&buf, FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, []string{"Order Number", "Address", "Total"}, table.Columns())
	require.Equal(t, 2, table.NumRows())

	total, ok := table.At(1, "Total").Str()
	require.True(t, ok, "workbook cells arrive as strings for the pipeline to coerce")
	assert.Equal(t, "250.5", total)
}

func TestReadXLSX_FirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Address"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"12 Main St"}))
	_, err := f.NewSheet("Extra")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Extra", "A1", &[]interface{}{"ignored"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, readErr := Read(&buf, FormatXLSX)
	require.NoError(t, readErr)
	assert.Equal(t, []string{"Address"}, table.Columns())
	assert.Equal(t, 1, table.NumRows())
}

func TestReadBytes_UnknownFormat(t *testing.T) {
	_, err := ReadBytes([]byte("x"), Format("parquet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}
