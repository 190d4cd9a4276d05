package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSales_FieldCount(t *testing.T) {
	assert.Len(t, Sales(), 31)
}

func TestSales_UniqueColumns(t *testing.T) {
	names := make(map[string]struct{})
	cols := make(map[string]struct{})
	for _, f := range Sales() {
		_, dupName := names[f.Name]
		assert.False(t, dupName, "duplicate field name %q", f.Name)
		names[f.Name] = struct{}{}

		_, dupCol := cols[f.Column]
		assert.False(t, dupCol, "duplicate SQL column %q", f.Column)
		cols[f.Column] = struct{}{}
	}
}

func TestCriticalColumns(t *testing.T) {
	assert.Equal(t, []string{"Address", "Order Quantity"}, CriticalColumns())
}

func TestMoneyColumns(t *testing.T) {
	money := MoneyColumns()
	assert.Len(t, money, 10)
	assert.Contains(t, money, "Total")
	assert.Contains(t, money, "Order Quantity")
	assert.NotContains(t, money, "revenue", "revenue is derived after coercion, not coerced itself")
}

func TestSQLColumns_MatchFieldOrder(t *testing.T) {
	cols := SQLColumns()
	require.Len(t, cols, len(Sales()))
	for i, f := range Sales() {
		assert.Equal(t, f.Column, cols[i])
	}
}

func TestDDL(t *testing.T) {
	ddl := DDL()

	assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS sales"))
	assert.Contains(t, ddl, "address TEXT")
	assert.Contains(t, ddl, "order_quantity INTEGER")
	assert.Contains(t, ddl, "order_date DATE")
	assert.Contains(t, ddl, "revenue REAL")
	assert.Equal(t, len(Sales())-1, strings.Count(ddl, ","), "one separator per column boundary")
}
