package table

import (
	"fmt"
)

// JoinHow selects which unmatched rows survive a join
type JoinHow int

const (
	LeftJoin JoinHow = iota
	InnerJoin
	RightJoin
)

// DefaultSuffixes mirror the conventional "_x" / "_y" collision suffixes
var DefaultSuffixes = [2]string{"_x", "_y"}

// JoinOptions configures Join. LeftOn and RightOn must have the same length.
// Non-key columns present on both sides are renamed with Suffixes.
type JoinOptions struct {
	LeftOn   []string
	RightOn  []string
	How      JoinHow
	Suffixes [2]string
}

// Join combines t with right. Every left row is paired with every matching
// right row, in left order then right order. Null keys never match.
func (t *Table) Join(right *Table, opts JoinOptions) (*Table, error) {
	if len(opts.LeftOn) == 0 || len(opts.LeftOn) != len(opts.RightOn) {
		return nil, fmt.Errorf("join: need matching key lists, got %d left and %d right", len(opts.LeftOn), len(opts.RightOn))
	}
	for _, k := range opts.LeftOn {
		if !t.Has(k) {
			return nil, fmt.Errorf("join: left key %q not found", k)
		}
	}
	for _, k := range opts.RightOn {
		if !right.Has(k) {
			return nil, fmt.Errorf("join: right key %q not found", k)
		}
	}

	// right keys sharing a name with their left key collapse into one column
	sharedKey := make(map[string]bool)
	for i := range opts.LeftOn {
		if opts.LeftOn[i] == opts.RightOn[i] {
			sharedKey[opts.RightOn[i]] = true
		}
	}

	leftNames := t.Columns()
	var rightNames []string
	for _, n := range right.names {
		if !sharedKey[n] {
			rightNames = append(rightNames, n)
		}
	}
	leftSet := make(map[string]bool, len(leftNames))
	for _, n := range leftNames {
		leftSet[n] = true
	}
	collide := make(map[string]bool)
	for _, n := range rightNames {
		if leftSet[n] && !sharedKey[n] {
			collide[n] = true
		}
	}

	// build an index of the right side
	rightIndex := make(map[string][]int, right.rows)
	for i := 0; i < right.rows; i++ {
		k, ok := right.compositeKey(i, opts.RightOn, false)
		if !ok {
			continue
		}
		rightIndex[k] = append(rightIndex[k], i)
	}

	type pair struct{ l, r int }
	var pairs []pair
	switch opts.How {
	case RightJoin:
		leftIndex := make(map[string][]int, t.rows)
		for i := 0; i < t.rows; i++ {
			k, ok := t.compositeKey(i, opts.LeftOn, false)
			if !ok {
				continue
			}
			leftIndex[k] = append(leftIndex[k], i)
		}
		for r := 0; r < right.rows; r++ {
			k, ok := right.compositeKey(r, opts.RightOn, false)
			matches := leftIndex[k]
			if !ok || len(matches) == 0 {
				pairs = append(pairs, pair{-1, r})
				continue
			}
			for _, l := range matches {
				pairs = append(pairs, pair{l, r})
			}
		}
	default:
		for l := 0; l < t.rows; l++ {
			k, ok := t.compositeKey(l, opts.LeftOn, false)
			matches := rightIndex[k]
			if !ok || len(matches) == 0 {
				if opts.How == LeftJoin {
					pairs = append(pairs, pair{l, -1})
				}
				continue
			}
			for _, r := range matches {
				pairs = append(pairs, pair{l, r})
			}
		}
	}

	out := Sized(len(pairs))
	for _, n := range leftNames {
		src := t.Column(n)
		col := make([]Value, len(pairs))
		for i, p := range pairs {
			if p.l >= 0 {
				col[i] = src[p.l]
			}
		}
		name := n
		if collide[n] {
			name = n + opts.Suffixes[0]
		}
		out.Set(name, col)
	}
	// shared key columns take the right value when there is no left row
	for i := range opts.LeftOn {
		if !sharedKey[opts.RightOn[i]] {
			continue
		}
		col := out.Column(opts.LeftOn[i])
		src := right.Column(opts.RightOn[i])
		for j, p := range pairs {
			if p.l < 0 && p.r >= 0 {
				col[j] = src[p.r]
			}
		}
	}
	for _, n := range rightNames {
		src := right.Column(n)
		col := make([]Value, len(pairs))
		for i, p := range pairs {
			if p.r >= 0 {
				col[i] = src[p.r]
			}
		}
		name := n
		if collide[n] {
			name = n + opts.Suffixes[1]
		}
		if out.Has(name) {
			return nil, fmt.Errorf("join: column %q collides after suffixing", name)
		}
		out.Set(name, col)
	}
	return out, nil
}

// Lookup returns a map from the key column to the first matching row index
func (t *Table) Lookup(key string) map[string]int {
	idx := make(map[string]int, t.rows)
	for i, v := range t.Column(key) {
		k, ok := v.Key()
		if !ok {
			continue
		}
		if _, seen := idx[k]; !seen {
			idx[k] = i
		}
	}
	return idx
}

// MergeByKey copies the given columns of right into t, matching t[leftKey]
// against the first row of right with the same right[rightKey]. Unmatched
// rows receive nulls. This is a left join without row multiplication.
func (t *Table) MergeByKey(right *Table, leftKey, rightKey string, columns ...string) error {
	if !right.Has(rightKey) {
		return fmt.Errorf("merge: right key %q not found", rightKey)
	}
	if len(columns) == 0 {
		for _, n := range right.names {
			if n != rightKey {
				columns = append(columns, n)
			}
		}
	}
	idx := right.Lookup(rightKey)
	left := t.Column(leftKey)
	if left == nil {
		return fmt.Errorf("merge: left key %q not found", leftKey)
	}
	for _, c := range columns {
		src := right.Column(c)
		if src == nil {
			return fmt.Errorf("merge: column %q not found", c)
		}
		col := make([]Value, t.rows)
		for i, v := range left {
			k, ok := v.Key()
			if !ok {
				continue
			}
			if r, hit := idx[k]; hit {
				col[i] = src[r]
			}
		}
		t.Set(c, col)
	}
	return nil
}
