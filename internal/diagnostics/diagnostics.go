// Package diagnostics prints quick summaries of a table: duplicate rows,
// null counts, and SankeyMATIC flow input.
package diagnostics

import (
	"fmt"
	"io"
	"sort"

	"hmiscli/internal/exporter"
	"hmiscli/internal/table"
)

// Uniqueness counts distinct rows over a column subset
type Uniqueness struct {
	Total       int
	Unique      int
	Unaccounted int
}

// Unique counts the rows of t that are distinct on the subset; an empty
// subset compares whole rows. Nulls compare equal to each other.
func Unique(t *table.Table, subset ...string) (Uniqueness, error) {
	for _, c := range subset {
		if !t.Has(c) {
			return Uniqueness{}, fmt.Errorf("unknown column %q", c)
		}
	}
	unique := t.DropDuplicates(subset...).Len()
	return Uniqueness{Total: t.Len(), Unique: unique, Unaccounted: t.Len() - unique}, nil
}

// UniqueSummary writes the row counts of Unique
func UniqueSummary(w io.Writer, t *table.Table, subset ...string) error {
	u, err := Unique(t, subset...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Total rows: %d\nUnique rows: %d\nUnaccounted-for rows: %d\n",
		u.Total, u.Unique, u.Unaccounted)
	return err
}

// NullCount is the number of null cells in one column
type NullCount struct {
	Column  string
	Nulls   int
	Percent int
}

// String renders the count as "**NaNs:** n / p%", the percentage truncated
func (n NullCount) String() string {
	return fmt.Sprintf("**NaNs:** %d / %d%%", n.Nulls, n.Percent)
}

// CountNulls counts the nulls in a column
func CountNulls(values []table.Value) NullCount {
	n := 0
	for _, v := range values {
		if v.IsNull() {
			n++
		}
	}
	c := NullCount{Nulls: n}
	if len(values) > 0 {
		c.Percent = int(100 * float64(n) / float64(len(values)))
	}
	return c
}

// NullCounts counts nulls for every column in table order
func NullCounts(t *table.Table) []NullCount {
	cols := t.Columns()
	out := make([]NullCount, len(cols))
	for i, c := range cols {
		out[i] = CountNulls(t.Column(c))
		out[i].Column = c
	}
	return out
}

// NullSummary writes each column name followed by its null count
func NullSummary(w io.Writer, t *table.Table) error {
	for _, c := range NullCounts(t) {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", c.Column, c); err != nil {
			return err
		}
	}
	return nil
}

// Flow is the number of rows moving from one left value to one right value
type Flow struct {
	Left  string
	Right string
	Count int
}

// Flows groups the rows where both columns are non-null by their value
// pair, ordered by left then right
func Flows(t *table.Table, left, right string) ([]Flow, error) {
	for _, c := range []string{left, right} {
		if !t.Has(c) {
			return nil, fmt.Errorf("unknown column %q", c)
		}
	}
	counts := make(map[[2]string]int)
	for i := 0; i < t.Len(); i++ {
		l, r := t.Get(left, i), t.Get(right, i)
		if l.IsNull() || r.IsNull() {
			continue
		}
		counts[[2]string{l.String(), r.String()}]++
	}
	flows := make([]Flow, 0, len(counts))
	for k, n := range counts {
		flows = append(flows, Flow{Left: k[0], Right: k[1], Count: n})
	}
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].Left != flows[j].Left {
			return flows[i].Left < flows[j].Left
		}
		return flows[i].Right < flows[j].Right
	})
	return flows, nil
}

// Sankey writes one "left [n] right" line per flow, the SankeyMATIC input format
func Sankey(w io.Writer, t *table.Table, left, right string) error {
	flows, err := Flows(t, left, right)
	if err != nil {
		return err
	}
	for _, f := range flows {
		if _, err := fmt.Fprintf(w, "%s [%d] %s\n", f.Left, f.Count, f.Right); err != nil {
			return err
		}
	}
	return nil
}

// NullTable is the null counts as a table with Column, NaNs, and Percent
func NullTable(t *table.Table) *table.Table {
	counts := NullCounts(t)
	cols := make([]table.Value, len(counts))
	nulls := make([]table.Value, len(counts))
	pct := make([]table.Value, len(counts))
	for i, c := range counts {
		cols[i] = table.String(c.Column)
		nulls[i] = table.Int(c.Nulls)
		pct[i] = table.Int(c.Percent)
	}
	out := table.New()
	out.Set("Column", cols)
	out.Set("NaNs", nulls)
	out.Set("Percent", pct)
	return out
}

// WriteWorkbook exports the null counts, and the flows when left and right
// are both set, to an xlsx workbook
func WriteWorkbook(path string, t *table.Table, left, right string) error {
	sheets := []exporter.Sheet{{Name: "Nulls", Table: NullTable(t)}}
	if left != "" && right != "" {
		flows, err := Flows(t, left, right)
		if err != nil {
			return err
		}
		ls := make([]table.Value, len(flows))
		rs := make([]table.Value, len(flows))
		ns := make([]table.Value, len(flows))
		for i, f := range flows {
			ls[i], rs[i], ns[i] = table.String(f.Left), table.String(f.Right), table.Int(f.Count)
		}
		ft := table.New()
		ft.Set(left, ls)
		ft.Set(right, rs)
		ft.Set("Count", ns)
		sheets = append(sheets, exporter.Sheet{Name: "Flows", Table: ft})
	}
	return exporter.WriteXLSX(path, sheets...)
}
