package dataprocessing

import (
	"context"

	"hmiscli/internal/table"
)

func (c *Cleaner) cleanProviders(ctx context.Context, st *step, t *table.Table) *table.Table {
	t = c.trimBlank(ctx, st, t)

	alt := t.Column("AltProgramType")
	if alt == nil {
		alt = make([]table.Value, t.Len())
		t.Set("AltProgramType", alt)
	}
	for i, p := range t.Column("Provider") {
		if s, ok := p.AsString(); ok && streetOutreachProviders[s] {
			alt[i] = table.String(streetOutreach)
		}
	}

	programType := t.Apply(func(r table.Row) table.Value {
		if v := r.Get("AltProgramType"); !v.IsNull() {
			return v
		}
		return r.Get("ProgramTypeCode")
	})
	t.Set("ProgramType", programType)

	aggregate := append([]table.Value(nil), programType...)
	t.Set("ProgramTypeAggregate", aggregate)
	t.Replace("ProgramTypeAggregate", programTypeAggregates)

	t.Set("HomelessnessProgram?", t.Map("ProgramType", func(v table.Value) table.Value {
		s, ok := v.AsString()
		if !ok {
			return table.Null()
		}
		return table.Bool(homelessnessPrograms[s])
	}))
	return t
}

func cleanDisabilities(t *table.Table) *table.Table {
	t.Replace("DisabilityType", disabilityTypeReplacements)
	return t
}

func cleanIncome(st *step, t *table.Table) *table.Table {
	st.badCells += parseDates(t, "StartDate", "EndDate")
	st.badCells += parseNumbers(t, "Last30DayIncome")
	t.Replace("SourceOfIncome", incomeReplacements)
	return t
}

func cleanNCB(st *step, t *table.Table) *table.Table {
	st.badCells += parseDates(t, "StartDate", "EndDate")
	t.Replace("SourceOfNonCashBenefit", ncbReplacements)
	return t
}

func (c *Cleaner) cleanReviewDetails(ctx context.Context, st *step, t *table.Table) *table.Table {
	t = c.trimBlank(ctx, st, t)
	st.badCells += parseDates(t, "ReviewDate")
	t.ReplaceWithNull("HousingStatus", housingStatusNulls...)
	aggregate := append([]table.Value(nil), t.Column("HousingStatus")...)
	if len(aggregate) == t.Len() {
		t.Set("HousingStatusAggregate", aggregate)
		t.Replace("HousingStatusAggregate", housingStatusAggregates)
	}
	return t
}

func cleanServices(st *step, t *table.Table) *table.Table {
	t.Rename(map[string]string{"ServiceDescription])": "ServiceDescription"})
	st.badCells += parseDates(t, "DateCreated", "DateUpdated", "ServiceStartDate", "ServiceEndDate")

	t.Set("LengthOfService", t.Apply(func(r table.Row) table.Value {
		start, ok1 := r.Get("ServiceStartDate").AsTime()
		end, ok2 := r.Get("ServiceEndDate").AsTime()
		if !ok1 || !ok2 {
			return table.Null()
		}
		return table.Float(days(start, end))
	}))

	t.Set("ServiceTypeL1", t.Map("ServiceCode", func(v table.Value) table.Value {
		s, ok := v.AsString()
		if !ok || s == "" {
			return table.Null()
		}
		return table.String(s[:1])
	}))
	t.Set("ServiceTypeL2", t.Map("ServiceCode", func(v table.Value) table.Value {
		s, ok := v.AsString()
		if !ok || len(s) < 2 {
			return table.Null()
		}
		return table.String(s[:2])
	}))
	return t
}
