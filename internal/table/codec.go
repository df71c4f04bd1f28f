package table

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"
)

// wireColumn is the gob form of a column. Payloads are split per kind so
// that the encoding does not depend on Value internals.
type wireColumn struct {
	Name    string
	Kinds   []Kind
	Strings []string
	Floats  []float64
	Bools   []bool
	Times   []time.Time
}

type wireTable struct {
	Rows    int
	Columns []wireColumn
}

// MarshalBinary encodes the table with encoding/gob
func (t *Table) MarshalBinary() ([]byte, error) {
	w := wireTable{Rows: t.rows, Columns: make([]wireColumn, len(t.names))}
	for j, name := range t.names {
		wc := wireColumn{Name: name, Kinds: make([]Kind, t.rows)}
		for i, v := range t.cols[j] {
			wc.Kinds[i] = v.kind
			switch v.kind {
			case KindString:
				wc.Strings = append(wc.Strings, v.s)
			case KindFloat:
				wc.Floats = append(wc.Floats, v.f)
			case KindBool:
				wc.Bools = append(wc.Bools, v.b)
			case KindTime:
				wc.Times = append(wc.Times, v.t)
			}
		}
		w.Columns[j] = wc
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, fmt.Errorf("encode table: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces t with a table decoded from MarshalBinary output
func (t *Table) UnmarshalBinary(data []byte) error {
	var w wireTable
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return fmt.Errorf("decode table: %w", err)
	}
	out := Sized(w.Rows)
	for _, wc := range w.Columns {
		if len(wc.Kinds) != w.Rows {
			return fmt.Errorf("decode table: column %q has %d cells, want %d", wc.Name, len(wc.Kinds), w.Rows)
		}
		if out.Has(wc.Name) {
			return fmt.Errorf("decode table: duplicate column %q", wc.Name)
		}
		col := make([]Value, w.Rows)
		var si, fi, bi, ti int
		for i, k := range wc.Kinds {
			switch k {
			case KindString:
				if si >= len(wc.Strings) {
					return fmt.Errorf("decode table: column %q is truncated", wc.Name)
				}
				col[i] = String(wc.Strings[si])
				si++
			case KindFloat:
				if fi >= len(wc.Floats) {
					return fmt.Errorf("decode table: column %q is truncated", wc.Name)
				}
				col[i] = Float(wc.Floats[fi])
				fi++
			case KindBool:
				if bi >= len(wc.Bools) {
					return fmt.Errorf("decode table: column %q is truncated", wc.Name)
				}
				col[i] = Bool(wc.Bools[bi])
				bi++
			case KindTime:
				if ti >= len(wc.Times) {
					return fmt.Errorf("decode table: column %q is truncated", wc.Name)
				}
				col[i] = Time(wc.Times[ti])
				ti++
			}
		}
		out.Set(wc.Name, col)
	}
	*t = *out
	return nil
}
