package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataset"
)

func openTestStore(t *testing.T, opts ...Option) *SalesStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sales.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBatch(rows int) *dataset.Table {
	t := dataset.New([]string{
		"Order Number", "Address", "City", "Order Date",
		"Order Quantity", "Total", "revenue", "year", "month_name", "unit_price",
	})
	for i := 0; i < rows; i++ {
		t.AppendRow([]dataset.Value{
			dataset.String(fmt.Sprintf("ORD-%03d", i)),
			dataset.String("12 Main St"),
			dataset.Missing(),
			dataset.Time(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
			dataset.Int(2),
			dataset.Float(100.5),
			dataset.Float(100.5),
			dataset.Int(2024),
			dataset.String("Mar"),
			dataset.Float(50.25),
		})
	}
	return t
}

func TestReplaceAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, sampleBatch(3)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, got.NumRows())

	order, ok := got.At(0, "Order Number").Str()
	require.True(t, ok)
	assert.Equal(t, "ORD-000", order)

	rev, ok := got.At(0, "revenue").Float()
	require.True(t, ok)
	assert.InDelta(t, 100.5, rev, 1e-9)

	qty, ok := got.At(0, "Order Quantity").Int()
	require.True(t, ok)
	assert.Equal(t, int64(2), qty)

	d, ok := got.At(0, "Order Date").Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestReplace_NullRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, sampleBatch(1)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got.NumRows())

	assert.True(t, got.At(0, "City").IsMissing(), "missing round-trips through NULL")
	assert.True(t, got.At(0, "Ship Date").IsMissing(), "columns absent from the batch store as NULL")
}

func TestReplace_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, sampleBatch(5)))
	require.NoError(t, s.Replace(ctx, sampleBatch(2)))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReplace_SmallBatchSize(t *testing.T) {
	s := openTestStore(t, WithBatchSize(2))
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, sampleBatch(7)))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n, "rows spanning multiple insert batches all land")
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, sampleBatch(4)))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.NumRows())
}
