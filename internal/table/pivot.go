package table

import (
	"fmt"
	"sort"
)

// Agg reduces the values that land in one pivot cell
type Agg int

const (
	// AggAny yields true when the cell received at least one row
	AggAny Agg = iota
	// AggLast keeps the last non-null value in row order
	AggLast
)

// PivotSpec reshapes a long table into one row per Index value and one
// column per distinct Columns value. Values is ignored by AggAny.
type PivotSpec struct {
	Index   string
	Columns string
	Values  string
	Agg     Agg
	// Fill replaces cells that received no rows
	Fill Value
	// Rename maps a category to its output column name
	Rename func(category string) string
}

type cell struct {
	val Value
}

// Pivot builds the pivot table. Rows with a null index or category are
// skipped. Index values are emitted in first-seen order and category columns
// in sorted order.
func (t *Table) Pivot(spec PivotSpec) (*Table, error) {
	idxCol := t.Column(spec.Index)
	if idxCol == nil {
		return nil, fmt.Errorf("pivot: index column %q not found", spec.Index)
	}
	catCol := t.Column(spec.Columns)
	if catCol == nil {
		return nil, fmt.Errorf("pivot: category column %q not found", spec.Columns)
	}
	var valCol []Value
	if spec.Agg != AggAny {
		valCol = t.Column(spec.Values)
		if valCol == nil {
			return nil, fmt.Errorf("pivot: value column %q not found", spec.Values)
		}
	}

	var order []Value
	rowOf := make(map[string]int)
	cats := make(map[string]Value)
	cells := make(map[string]map[int]*cell)

	for i := 0; i < t.rows; i++ {
		ik, ok := idxCol[i].Key()
		if !ok {
			continue
		}
		ck, ok := catCol[i].Key()
		if !ok {
			continue
		}
		r, seen := rowOf[ik]
		if !seen {
			r = len(order)
			rowOf[ik] = r
			order = append(order, idxCol[i])
		}
		if _, seen := cats[ck]; !seen {
			cats[ck] = catCol[i]
			cells[ck] = make(map[int]*cell)
		}
		c := cells[ck][r]
		if c == nil {
			c = &cell{}
			cells[ck][r] = c
		}
		if spec.Agg == AggLast && !valCol[i].IsNull() {
			c.val = valCol[i]
		}
	}

	keys := make([]string, 0, len(cats))
	for k := range cats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return cats[keys[a]].Less(cats[keys[b]]) })

	out := Sized(len(order))
	out.Set(spec.Index, order)
	for _, ck := range keys {
		name := cats[ck].String()
		if spec.Rename != nil {
			name = spec.Rename(name)
		}
		if out.Has(name) {
			return nil, fmt.Errorf("pivot: column %q already exists", name)
		}
		col := make([]Value, len(order))
		for r := range col {
			c := cells[ck][r]
			if c == nil {
				col[r] = spec.Fill
				continue
			}
			col[r] = c.result(spec.Agg)
		}
		out.Set(name, col)
	}
	return out, nil
}

func (c *cell) result(agg Agg) Value {
	if agg == AggAny {
		return Bool(true)
	}
	return c.val
}
