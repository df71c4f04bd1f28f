package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strs(vals ...string) []Value {
	out := make([]Value, len(vals))
	for i, s := range vals {
		if s == "" {
			continue
		}
		out[i] = String(s)
	}
	return out
}

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromRecords(
		[]string{"id", "name", "group"},
		[][]string{
			{"1", "alice", "a"},
			{"2", "bob", "NA"},
			{"3", "", "a"},
			{"2", "bob"},
		},
		func(s string) bool { return s == "" || s == "NA" },
	)
	require.NoError(t, err)
	return tbl
}

func TestFromRecords(t *testing.T) {
	tbl := newTestTable(t)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"id", "name", "group"}, tbl.Columns())
	assert.True(t, tbl.Get("group", 1).IsNull())
	assert.True(t, tbl.Get("name", 2).IsNull())
	assert.True(t, tbl.Get("group", 3).IsNull(), "short record is padded")
	assert.Equal(t, "alice", tbl.Get("name", 0).Str())

	_, err := FromRecords([]string{"a", "a"}, nil, nil)
	assert.Error(t, err)

	_, err = FromRecords([]string{"a"}, [][]string{{"1", "2"}}, nil)
	assert.Error(t, err)
}

func TestSetAndDrop(t *testing.T) {
	tbl := newTestTable(t)
	tbl.Set("flag", nil)
	assert.True(t, tbl.Has("flag"))
	assert.Len(t, tbl.Column("flag"), 4)

	assert.Panics(t, func() { tbl.Set("bad", []Value{Null()}) })

	tbl.Drop("flag", "missing")
	assert.False(t, tbl.Has("flag"))
	assert.Equal(t, []string{"id", "name", "group"}, tbl.Columns())

	tbl.Rename(map[string]string{"name": "Name"})
	assert.True(t, tbl.Has("Name"))
	assert.False(t, tbl.Has("name"))
}

func TestSelect(t *testing.T) {
	tbl := newTestTable(t)
	sel, err := tbl.Select("name", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, sel.Columns())

	_, err = tbl.Select("id", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestFilterSliceTrim(t *testing.T) {
	tbl := newTestTable(t)
	bobs := tbl.Filter(func(r Row) bool { return r.Get("name").Str() == "bob" })
	assert.Equal(t, 2, bobs.Len())

	assert.Equal(t, 2, tbl.Slice(1, 3).Len())
	assert.Equal(t, 4, tbl.Slice(-1, 99).Len())

	blank := Sized(3)
	blank.Set("a", strs("x", "", ""))
	blank.Set("b", strs("", "y", ""))
	trimmed, n := blank.TrimTrailingBlank()
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, trimmed.Len())
}

func TestReplaceAndFill(t *testing.T) {
	tbl := newTestTable(t)
	tbl.Replace("name", map[string]Value{"bob": String("robert"), "alice": Null()})
	assert.True(t, tbl.Get("name", 0).IsNull())
	assert.Equal(t, "robert", tbl.Get("name", 1).Str())

	tbl.ReplaceWithNull("group", "a")
	assert.True(t, tbl.Get("group", 0).IsNull())

	tbl.FillNull(String("z"), "group", "created")
	assert.Equal(t, "z", tbl.Get("group", 2).Str())
	assert.Equal(t, "z", tbl.Get("created", 3).Str())
}

func TestAnyTrue(t *testing.T) {
	tbl := Sized(3)
	tbl.Set("a", []Value{Bool(true), Bool(false), Null()})
	tbl.Set("b", []Value{Bool(false), Bool(true), Null()})
	assert.Equal(t, []Value{Bool(true), Bool(true), Bool(false)}, tbl.AnyTrue("a", "b"))
}

func TestSortBy(t *testing.T) {
	tbl := Sized(4)
	tbl.Set("k", []Value{Float(2), Null(), Float(1), Float(2)})
	tbl.Set("pos", []Value{Int(0), Int(1), Int(2), Int(3)})

	asc := tbl.SortBy("k", false)
	assert.Equal(t, []Value{Int(2), Int(0), Int(3), Int(1)}, asc.Column("pos"))

	desc := tbl.SortBy("k", true)
	assert.Equal(t, []Value{Int(0), Int(3), Int(2), Int(1)}, desc.Column("pos"), "stable with nulls last")
}

func TestDuplicates(t *testing.T) {
	tbl := newTestTable(t)
	assert.Equal(t, []bool{false, false, false, true}, tbl.Duplicated("id"))
	dedup := tbl.DropDuplicates("id")
	assert.Equal(t, 3, dedup.Len())

	all := tbl.DropDuplicates()
	assert.Equal(t, 3, all.Len(), "rows 1 and 3 are identical")
}

func TestValueSemantics(t *testing.T) {
	assert.False(t, Null().Equal(Null()))
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("1").Equal(Float(1)))
	assert.True(t, Float(math.NaN()).IsNull())
	assert.True(t, Time(time.Time{}).IsNull())

	assert.Equal(t, "True", Bool(true).String())
	assert.Equal(t, "1.5", Float(1.5).String())
	assert.Equal(t, "3", Int(3).String())
	assert.Equal(t, "2014-07-01", Time(time.Date(2014, 7, 1, 0, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "", Null().String())

	assert.True(t, Float(1).Less(Null()))
	assert.False(t, Null().Less(Float(1)))
}

func TestBinaryRoundTrip(t *testing.T) {
	day := time.Date(2013, 1, 2, 0, 0, 0, 0, time.UTC)
	tbl := Sized(3)
	tbl.Set("s", []Value{String("x"), Null(), String("")})
	tbl.Set("f", []Value{Float(1.25), Int(7), Null()})
	tbl.Set("b", []Value{Bool(true), Null(), Bool(false)})
	tbl.Set("t", []Value{Null(), Time(day), Null()})

	data, err := tbl.MarshalBinary()
	require.NoError(t, err)

	var got Table
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, tbl.Columns(), got.Columns())
	for _, name := range tbl.Columns() {
		for i := 0; i < tbl.Len(); i++ {
			want, have := tbl.Get(name, i), got.Get(name, i)
			assert.Equal(t, want.Kind(), have.Kind(), "%s[%d]", name, i)
			assert.Equal(t, want.String(), have.String(), "%s[%d]", name, i)
		}
	}

	assert.Error(t, got.UnmarshalBinary([]byte("junk")))
}
