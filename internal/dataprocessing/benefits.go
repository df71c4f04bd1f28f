package dataprocessing

import (
	"context"
	"fmt"

	"hmiscli/internal/table"
)

func withSuffix(suffix string) func(string) string {
	return func(s string) string { return s + suffix }
}

// flagPivot marks, per EntryID, which categories of column occur
func flagPivot(t *table.Table, column string, rename func(string) string) (*table.Table, error) {
	pairs, err := t.Select("EntryID", column)
	if err != nil {
		return nil, err
	}
	return pairs.DropDuplicates().Pivot(table.PivotSpec{
		Index:   "EntryID",
		Columns: column,
		Agg:     table.AggAny,
		Rename:  rename,
	})
}

func (c *Cleaner) addDisabilities(ctx context.Context, st *step, df *table.Table) error {
	entry := suffixed(DisabilityTypes, entrySuffix)
	review := suffixed(DisabilityTypes, reviewSuffix)

	for _, src := range []struct {
		table  string
		suffix string
		types  []string
		flag   string
	}{
		{EntryDisabilities, entrySuffix, entry, "Disabled? Entry"},
		{ReviewDisabilities, reviewSuffix, review, "Disabled? Review"},
	} {
		t, err := c.dependency(ctx, st, src.table)
		if err != nil {
			return err
		}
		pivot, err := flagPivot(t, "DisabilityType", withSuffix(src.suffix))
		if err != nil {
			return fmt.Errorf("pivot %s: %w", src.table, err)
		}
		if err := df.MergeByKey(pivot, "EntryID", "EntryID"); err != nil {
			return fmt.Errorf("merge %s: %w", src.table, err)
		}
		df.FillNull(table.Bool(false), src.types...)
		df.Set(src.flag, df.AnyTrue(src.types...))
	}

	for i, d := range DisabilityTypes {
		e, r := df.Column(entry[i]), df.Column(review[i])
		combined := make([]table.Value, df.Len())
		for row := range combined {
			combined[row] = table.Bool(e[row].IsTrue() || r[row].IsTrue())
		}
		df.Set(d, combined)
	}
	df.Set("Disabled?", df.AnyTrue(DisabilityTypes...))
	return nil
}

// incomePivot keeps the most recent amount per EntryID and income source
// and adds the per-entry total as Last30DayIncome
func incomePivot(t *table.Table, suffix string) (*table.Table, error) {
	sorted := t.SortBy("StartDate", false)
	pivot, err := sorted.Pivot(table.PivotSpec{
		Index:   "EntryID",
		Columns: "SourceOfIncome",
		Values:  "Last30DayIncome",
		Agg:     table.AggLast,
		Rename:  withSuffix(suffix),
	})
	if err != nil {
		return nil, err
	}
	var sources []string
	for _, col := range pivot.Columns() {
		if col != "EntryID" {
			sources = append(sources, col)
		}
	}
	total := pivot.Apply(func(r table.Row) table.Value {
		sum := 0.0
		for _, s := range sources {
			if f, ok := r.Get(s).AsFloat(); ok {
				sum += f
			}
		}
		return table.Float(sum)
	})
	pivot.Set("Last30DayIncome"+suffix, total)
	return pivot, nil
}

func (c *Cleaner) addIncome(ctx context.Context, st *step, df *table.Table) error {
	for _, src := range []struct {
		table  string
		suffix string
		types  []string
		bucket string
	}{
		{EntryIncome, "", IncomeTypes, "Last30DayIncomeBucket"},
		{ExitIncome, exitSuffix, IncomeTypesExit, "Last30DayIncomeExitBucket"},
	} {
		t, err := c.dependency(ctx, st, src.table)
		if err != nil {
			return err
		}
		pivot, err := incomePivot(t, src.suffix)
		if err != nil {
			return fmt.Errorf("pivot %s: %w", src.table, err)
		}
		if err := df.MergeByKey(pivot, "EntryID", "EntryID"); err != nil {
			return fmt.Errorf("merge %s: %w", src.table, err)
		}
		totalCol := "Last30DayIncome" + src.suffix
		df.FillNull(table.Float(0), src.types...)
		df.FillNull(table.Float(0), totalCol)
		df.Set(src.bucket, df.Map(totalCol, IncomeBucket))
	}
	return nil
}

func (c *Cleaner) addNCB(ctx context.Context, st *step, df *table.Table) error {
	for _, src := range []struct {
		table  string
		suffix string
		types  []string
	}{
		{EntryNCB, "", NCBTypes},
		{ExitNCB, exitSuffix, NCBTypesExit},
	} {
		t, err := c.dependency(ctx, st, src.table)
		if err != nil {
			return err
		}
		pivot, err := flagPivot(t, "SourceOfNonCashBenefit", withSuffix(src.suffix))
		if err != nil {
			return fmt.Errorf("pivot %s: %w", src.table, err)
		}
		if err := df.MergeByKey(pivot, "EntryID", "EntryID"); err != nil {
			return fmt.Errorf("merge %s: %w", src.table, err)
		}
		df.FillNull(table.Bool(false), src.types...)
	}
	return nil
}
