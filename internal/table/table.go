// Package table is a small in-memory columnar table used by the cleaning
// pipeline. Columns are named, ordered, and hold nullable Values.
package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table holds equally sized named columns
type Table struct {
	names []string
	index map[string]int
	cols  [][]Value
	rows  int
}

// New creates an empty table with the given columns
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, name := range columns {
		t.Set(name, nil)
	}
	return t
}

// Sized creates a table with no columns and a fixed row count
func Sized(rows int) *Table {
	return &Table{index: make(map[string]int), rows: rows}
}

// FromRecords builds a string table from a header and raw records.
// Short records are padded with nulls; cells for which isNull returns true
// are stored as null.
func FromRecords(header []string, records [][]string, isNull func(string) bool) (*Table, error) {
	t := &Table{index: make(map[string]int, len(header))}
	for _, name := range header {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.index[name] = len(t.names)
		t.names = append(t.names, name)
		t.cols = append(t.cols, make([]Value, len(records)))
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", i+1, len(rec), len(header))
		}
		for j, cell := range rec {
			if isNull != nil && isNull(cell) {
				continue
			}
			t.cols[j][i] = String(cell)
		}
	}
	t.rows = len(records)
	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of a column, or nil when it does not exist.
// The returned slice aliases table storage.
func (t *Table) Column(name string) []Value {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.cols[i]
}

// Get returns a single cell; missing columns read as null
func (t *Table) Get(name string, row int) Value {
	col := t.Column(name)
	if col == nil {
		return Null()
	}
	return col[row]
}

// Set adds or replaces a column. A nil slice creates an all-null column.
func (t *Table) Set(name string, values []Value) {
	if values == nil {
		values = make([]Value, t.rows)
	}
	if len(t.names) == 0 && t.rows == 0 {
		t.rows = len(values)
	}
	if len(values) != t.rows {
		panic(fmt.Sprintf("table: column %q has %d values, table has %d rows", name, len(values), t.rows))
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[name]; ok {
		t.cols[i] = values
		return
	}
	t.index[name] = len(t.names)
	t.names = append(t.names, name)
	t.cols = append(t.cols, values)
}

// Drop removes the named columns, ignoring unknown names
func (t *Table) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keptNames []string
	var keptCols [][]Value
	for i, n := range t.names {
		if drop[n] {
			continue
		}
		keptNames = append(keptNames, n)
		keptCols = append(keptCols, t.cols[i])
	}
	t.names, t.cols = keptNames, keptCols
	t.reindex()
}

// Rename renames columns according to mapping
func (t *Table) Rename(mapping map[string]string) {
	for i, n := range t.names {
		if to, ok := mapping[n]; ok {
			t.names[i] = to
		}
	}
	t.reindex()
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.names))
	for i, n := range t.names {
		t.index[n] = i
	}
}

// Select returns a new table with only the named columns, in that order
func (t *Table) Select(names ...string) (*Table, error) {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown columns: %s", strings.Join(missing, ", "))
	}
	out := &Table{rows: t.rows, index: make(map[string]int, len(names))}
	for _, n := range names {
		if out.Has(n) {
			continue
		}
		out.Set(n, append([]Value(nil), t.Column(n)...))
	}
	return out, nil
}

// Row is a read-only view of one row
type Row struct {
	t *Table
	i int
}

// Row returns a view of row i
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Index returns the row position within its table
func (r Row) Index() int { return r.i }

// Get returns the named cell, null for unknown columns
func (r Row) Get(name string) Value { return r.t.Get(name, r.i) }

// Each calls fn for every cell in column order
func (r Row) Each(fn func(column string, v Value)) {
	for j, n := range r.t.names {
		fn(n, r.t.cols[j][r.i])
	}
}

// Take returns a new table holding the given row positions in order
func (t *Table) Take(rows []int) *Table {
	out := &Table{rows: len(rows), names: t.Columns()}
	out.cols = make([][]Value, len(t.cols))
	for j, col := range t.cols {
		nc := make([]Value, len(rows))
		for k, r := range rows {
			nc[k] = col[r]
		}
		out.cols[j] = nc
	}
	out.reindex()
	return out
}

// Filter keeps the rows for which keep returns true
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows []int
	for i := 0; i < t.rows; i++ {
		if keep(t.Row(i)) {
			rows = append(rows, i)
		}
	}
	return t.Take(rows)
}

// Slice returns rows [lo, hi)
func (t *Table) Slice(lo, hi int) *Table {
	if lo < 0 {
		lo = 0
	}
	if hi > t.rows {
		hi = t.rows
	}
	rows := make([]int, 0, max(hi-lo, 0))
	for i := lo; i < hi; i++ {
		rows = append(rows, i)
	}
	return t.Take(rows)
}

// TrimTrailingBlank drops rows at the end of the table whose cells are all
// null. It returns the trimmed table and the number of dropped rows.
func (t *Table) TrimTrailingBlank() (*Table, int) {
	end := t.rows
	for end > 0 {
		blank := true
		for _, col := range t.cols {
			if !col[end-1].IsNull() {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		end--
	}
	if end == t.rows {
		return t, 0
	}
	return t.Slice(0, end), t.rows - end
}

// Apply evaluates fn for every row
func (t *Table) Apply(fn func(Row) Value) []Value {
	out := make([]Value, t.rows)
	for i := range out {
		out[i] = fn(t.Row(i))
	}
	return out
}

// Map evaluates fn over a single column
func (t *Table) Map(name string, fn func(Value) Value) []Value {
	col := t.Column(name)
	out := make([]Value, t.rows)
	for i := range out {
		var v Value
		if col != nil {
			v = col[i]
		}
		out[i] = fn(v)
	}
	return out
}

// Replace rewrites string cells of a column found in mapping. Mapping a
// string to Null() erases it. Missing columns are ignored.
func (t *Table) Replace(name string, mapping map[string]Value) {
	col := t.Column(name)
	for i, v := range col {
		s, ok := v.AsString()
		if !ok {
			continue
		}
		if to, hit := mapping[s]; hit {
			col[i] = to
		}
	}
}

// ReplaceWithNull nulls the string cells equal to any of values
func (t *Table) ReplaceWithNull(name string, values ...string) {
	mapping := make(map[string]Value, len(values))
	for _, s := range values {
		mapping[s] = Null()
	}
	t.Replace(name, mapping)
}

// FillNull replaces nulls in the named columns with v, creating columns
// that do not exist yet
func (t *Table) FillNull(v Value, names ...string) {
	for _, name := range names {
		col := t.Column(name)
		if col == nil {
			col = make([]Value, t.rows)
			t.Set(name, col)
		}
		for i := range col {
			if col[i].IsNull() {
				col[i] = v
			}
		}
	}
}

// AnyTrue returns, per row, whether any of the named columns is true
func (t *Table) AnyTrue(names ...string) []Value {
	out := make([]Value, t.rows)
	for i := range out {
		hit := false
		for _, n := range names {
			if t.Get(n, i).IsTrue() {
				hit = true
				break
			}
		}
		out[i] = Bool(hit)
	}
	return out
}

// SortBy returns a stably sorted copy ordered by the column.
// Nulls always sort last.
func (t *Table) SortBy(name string, descending bool) *Table {
	col := t.Column(name)
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	if col != nil {
		sort.SliceStable(rows, func(a, b int) bool {
			va, vb := col[rows[a]], col[rows[b]]
			if descending {
				if va.IsNull() || vb.IsNull() {
					return vb.IsNull() && !va.IsNull()
				}
				return vb.Less(va)
			}
			return va.Less(vb)
		})
	}
	return t.Take(rows)
}

// DropDuplicates keeps the first row for each distinct combination of the
// named columns. Null participates as its own key.
func (t *Table) DropDuplicates(names ...string) *Table {
	if len(names) == 0 {
		names = t.names
	}
	seen := make(map[string]bool, t.rows)
	var rows []int
	for i := 0; i < t.rows; i++ {
		k := t.rowKey(i, names, true)
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, i)
	}
	return t.Take(rows)
}

// Duplicated reports, per row, whether an earlier row has the same values
// in the named columns
func (t *Table) Duplicated(names ...string) []bool {
	seen := make(map[string]bool, t.rows)
	out := make([]bool, t.rows)
	for i := 0; i < t.rows; i++ {
		k := t.rowKey(i, names, true)
		out[i] = seen[k]
		seen[k] = true
	}
	return out
}

// rowKey builds a composite key for row i over the named columns
func (t *Table) rowKey(i int, names []string, nullAsKey bool) string {
	k, _ := t.compositeKey(i, names, nullAsKey)
	return k
}

// compositeKey is rowKey with a choice about nulls: when nullAsKey is false
// the second return is false as soon as any component is null.
func (t *Table) compositeKey(i int, names []string, nullAsKey bool) (string, bool) {
	var b strings.Builder
	for j, n := range names {
		if j > 0 {
			b.WriteByte(0)
		}
		k, ok := t.Get(n, i).Key()
		if !ok {
			if !nullAsKey {
				return "", false
			}
			k = "null"
		}
		b.WriteString(k)
	}
	return b.String(), true
}

// StringSet returns the distinct non-null string values of a column
func (t *Table) StringSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, v := range t.Column(name) {
		if s, ok := v.AsString(); ok {
			set[s] = true
		}
	}
	return set
}
