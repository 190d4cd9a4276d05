// Package schema defines the canonical sales table descriptor shared by
// the normalization pipeline, the persistence adapter, and the export
// adapter, so the column set is declared exactly once.
package schema

import (
	"fmt"
	"strings"
)

// FieldType is the logical type of a schema field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeDate
	TypeFloat
	TypeInt
)

// Field describes one column of the canonical sales schema.
type Field struct {
	// Name is the canonical column name as it appears in a normalized
	// table (source column names for raw fields, derived names for
	// computed ones).
	Name string
	// Column is the SQL column name in the sales table.
	Column string
	// Type is the logical field type.
	Type FieldType
	// Nullable reports whether missing values are allowed. Only the
	// critical fields are non-nullable; they are enforced by the
	// pipeline's drop filter, not by the store.
	Nullable bool
	// Money marks columns subject to the strip-then-parse numeric
	// coercion rule.
	Money bool
	// Critical marks fields whose absence removes the row.
	Critical bool
}

// TableName is the persistence table for normalized batches.
const TableName = "sales"

// Sales returns the canonical field list in column order. The slice is
// shared; callers must not mutate it.
func Sales() []Field { return salesFields }

var salesFields = []Field{
	// Order identity
	{Name: "Order Number", Column: "order_number", Type: TypeString, Nullable: true},
	{Name: "Customer Name", Column: "customer_name", Type: TypeString, Nullable: true},
	{Name: "Customer Type", Column: "customer_type", Type: TypeString, Nullable: true},

	// Address / geography
	{Name: "Address", Column: "address", Type: TypeString, Nullable: false, Critical: true},
	{Name: "City", Column: "city", Type: TypeString, Nullable: true},
	{Name: "State", Column: "state", Type: TypeString, Nullable: true},
	{Name: "Region", Column: "region", Type: TypeString, Nullable: true},
	{Name: "Postal Code", Column: "postal_code", Type: TypeString, Nullable: true},
	{Name: "Country", Column: "country", Type: TypeString, Nullable: true},

	// Product
	{Name: "Product Name", Column: "product_name", Type: TypeString, Nullable: true},
	{Name: "Product Category", Column: "product_category", Type: TypeString, Nullable: true},
	{Name: "Sales Rep", Column: "sales_rep", Type: TypeString, Nullable: true},

	// Dates
	{Name: "Order Date", Column: "order_date", Type: TypeDate, Nullable: true},
	{Name: "Ship Date", Column: "ship_date", Type: TypeDate, Nullable: true},

	// Commercial
	{Name: "Cost Price", Column: "cost_price", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Retail Price", Column: "retail_price", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Profit Margin", Column: "profit_margin", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Order Quantity", Column: "order_quantity", Type: TypeInt, Nullable: false, Money: true, Critical: true},
	{Name: "Sub Total", Column: "sub_total", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Discount %", Column: "discount_pct", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Discount $", Column: "discount_amt", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Order Total", Column: "order_total", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Shipping Cost", Column: "shipping_cost", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "Total", Column: "total", Type: TypeFloat, Nullable: true, Money: true},
	{Name: "revenue", Column: "revenue", Type: TypeFloat, Nullable: true},

	// Derived calendar / identity
	{Name: "year", Column: "year", Type: TypeInt, Nullable: true},
	{Name: "month", Column: "month", Type: TypeInt, Nullable: true},
	{Name: "month_name", Column: "month_name", Type: TypeString, Nullable: true},
	{Name: "ym", Column: "ym", Type: TypeString, Nullable: true},
	{Name: "quarter", Column: "quarter", Type: TypeString, Nullable: true},

	// Derived price
	{Name: "unit_price", Column: "unit_price", Type: TypeFloat, Nullable: true},
}

// MoneyColumns returns the canonical names subject to strip-then-parse
// coercion, in schema order.
func MoneyColumns() []string {
	var cols []string
	for _, f := range salesFields {
		if f.Money {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// CriticalColumns returns the names whose missing values drop a row.
func CriticalColumns() []string {
	var cols []string
	for _, f := range salesFields {
		if f.Critical {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// SQLColumns returns the SQL column names in schema order.
func SQLColumns() []string {
	cols := make([]string, len(salesFields))
	for i, f := range salesFields {
		cols[i] = f.Column
	}
	return cols
}

// DDL generates the CREATE TABLE statement for the sales table from the
// descriptor.
func DDL() string {
	defs := make([]string, len(salesFields))
	for i, f := range salesFields {
		defs[i] = fmt.Sprintf("%s %s", f.Column, sqlType(f.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		TableName, strings.Join(defs, ",\n\t"))
}

func sqlType(t FieldType) string {
	switch t {
	case TypeFloat:
		return "REAL"
	case TypeInt:
		return "INTEGER"
	case TypeDate:
		return "DATE"
	default:
		return "TEXT"
	}
}
