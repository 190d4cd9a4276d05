package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/ingest"
)

const loaderCSV = "Address,Order Quantity,Total\n12 Main St,2,100\n9 Oak Ave,1,50\n"

func TestLoader_MemoizesByContentHash(t *testing.T) {
	loader := NewLoader(NewNormalizer(slog.Default()), slog.Default())
	ctx := context.Background()

	first, err := loader.Load(ctx, []byte(loaderCSV), ingest.FormatCSV)
	require.NoError(t, err)
	second, err := loader.Load(ctx, []byte(loaderCSV), ingest.FormatCSV)
	require.NoError(t, err)

	assert.Same(t, first, second, "identical content returns the cached batch")
	assert.Equal(t, first.ContentHash, second.ContentHash)
}

func TestLoader_RecomputesOnNewContent(t *testing.T) {
	loader := NewLoader(NewNormalizer(slog.Default()), slog.Default())
	ctx := context.Background()

	first, err := loader.Load(ctx, []byte(loaderCSV), ingest.FormatCSV)
	require.NoError(t, err)

	other := loaderCSV + "1 Elm St,3,75\n"
	second, err := loader.Load(ctx, []byte(other), ingest.FormatCSV)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Table.NumRows())
	assert.Same(t, second, loader.Cached())
}

func TestLoader_FailedLoadKeepsPreviousBatch(t *testing.T) {
	loader := NewLoader(NewNormalizer(slog.Default()), slog.Default())
	ctx := context.Background()

	first, err := loader.Load(ctx, []byte(loaderCSV), ingest.FormatCSV)
	require.NoError(t, err)

	// Every row missing the critical address column.
	bad := "Address,Order Quantity,Total\n,2,100\n"
	_, err = loader.Load(ctx, []byte(bad), ingest.FormatCSV)
	require.Error(t, err)

	assert.Same(t, first, loader.Cached(), "a failed upload does not evict the good batch")
}
