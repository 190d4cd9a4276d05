package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRow_PadsShortRows(t *testing.T) {
	tbl := New([]string{"a", "b", "c"})
	tbl.AppendRow([]Value{String("x")})

	require.Equal(t, 1, tbl.NumRows())
	s, ok := tbl.At(0, "a").Str()
	require.True(t, ok)
	assert.Equal(t, "x", s)
	assert.True(t, tbl.At(0, "b").IsMissing())
	assert.True(t, tbl.At(0, "c").IsMissing())
}

func TestAt_UnknownColumnIsMissing(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{Float(1)})

	assert.True(t, tbl.At(0, "nope").IsMissing())
}

func TestAddColumn(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{String("x")})
	tbl.AppendRow([]Value{String("y")})

	col := tbl.AddColumn("b", Missing())
	assert.Equal(t, 1, col)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.True(t, tbl.At(0, "b").IsMissing())
	assert.True(t, tbl.At(1, "b").IsMissing())
}

func TestCloneIsDeep(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{String("original")})

	clone := tbl.Clone()
	clone.Set(0, 0, String("changed"))
	clone.SetColumnName(0, "renamed")

	s, _ := tbl.At(0, "a").Str()
	assert.Equal(t, "original", s)
	assert.Equal(t, []string{"a"}, tbl.Columns())
}

func TestSelectCopiesRows(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{Int(1)})
	tbl.AppendRow([]Value{Int(2)})
	tbl.AppendRow([]Value{Int(3)})

	view := tbl.Select([]int{2, 0})
	require.Equal(t, 2, view.NumRows())
	v, _ := view.At(0, "a").Int()
	assert.Equal(t, int64(3), v)

	view.Set(1, 0, Int(99))
	orig, _ := tbl.At(0, "a").Int()
	assert.Equal(t, int64(1), orig, "mutating a view must not touch the source")
}

func TestHead(t *testing.T) {
	tbl := New([]string{"a"})
	for i := 0; i < 7; i++ {
		tbl.AppendRow([]Value{Int(int64(i))})
	}

	assert.Equal(t, 5, tbl.Head(5).NumRows())
	assert.Equal(t, 7, tbl.Head(100).NumRows())
	assert.Equal(t, 0, tbl.Head(0).NumRows())
}

func TestRowKey_KindSensitive(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.AppendRow([]Value{String("5")})
	tbl.AppendRow([]Value{Float(5)})
	tbl.AppendRow([]Value{Float(5)})

	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1),
		"text 5 and numeric 5 must not collide")
	assert.Equal(t, tbl.RowKey(1), tbl.RowKey(2))
}

func TestValueAccessors(t *testing.T) {
	f, ok := Int(7).Float()
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	i, ok := Float(7.9).Int()
	require.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = String("7").Float()
	assert.False(t, ok, "strings never coerce implicitly")

	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got, ok := Time(d).Time()
	require.True(t, ok)
	assert.True(t, got.Equal(d))
}

func TestValueFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "missing", v: Missing(), want: ""},
		{name: "string", v: String("hi"), want: "hi"},
		{name: "float no trailing zeros", v: Float(12.5), want: "12.5"},
		{name: "int", v: Int(42), want: "42"},
		{name: "date", v: Time(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)), want: "2024-03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Format())
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Missing().Equal(Missing()))
	assert.True(t, Float(1).Equal(Float(1)))
	assert.False(t, Float(1).Equal(Int(1)), "equality is kind-exact")
	assert.False(t, String("").Equal(Missing()))
}
