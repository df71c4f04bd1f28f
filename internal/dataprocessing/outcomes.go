package dataprocessing

import (
	"time"

	"hmiscli/internal/table"
)

// destinationOutcome maps an exit destination to its outcome class;
// unknown and missing destinations have none
func destinationOutcome(dest table.Value) table.Value {
	s, ok := dest.AsString()
	if !ok {
		return table.Null()
	}
	if o, known := caseOutcomes[s]; known {
		return table.String(o)
	}
	return table.Null()
}

// caseOutcome classifies a stay. Permanent supportive housing counts as a
// permanent outcome once the tenure passes pshPermanentTenure days, judged
// from the stay length, or from the entry date when the client has not
// exited by the dump date.
func caseOutcome(r table.Row, dump time.Time) table.Value {
	dest := r.Get("DestinationAtExit")
	if s, _ := r.Get("ProgramType").AsString(); s != permanentSupportiveHousing {
		return destinationOutcome(dest)
	}
	if stay, ok := r.Get("LengthOfStay").AsFloat(); ok {
		if stay > pshPermanentTenure {
			return table.String(OutcomePermanent)
		}
		return destinationOutcome(dest)
	}
	if entered, ok := r.Get("ProgramEntryDate").AsTime(); ok {
		if entered.Before(dump.AddDate(0, 0, -pshPermanentTenure)) {
			return table.String(OutcomePermanent)
		}
	}
	return destinationOutcome(dest)
}

func addCaseOutcomes(df *table.Table, dump time.Time) {
	df.Set("CaseOutcome", df.Apply(func(r table.Row) table.Value { return caseOutcome(r, dump) }))
	df.Set("CaseSuccess", df.Map("CaseOutcome", func(v table.Value) table.Value {
		s, ok := v.AsString()
		if !ok {
			return table.Null()
		}
		return table.Bool(s == OutcomePermanent)
	}))
}

func addIncomeOutcomes(df *table.Table) {
	positive := func(col string) []table.Value {
		return df.Map(col, func(v table.Value) table.Value {
			f, ok := v.AsFloat()
			return table.Bool(ok && f > 0)
		})
	}
	change := func(exit, entry string) []table.Value {
		return df.Apply(func(r table.Row) table.Value {
			to, ok1 := r.Get(exit).AsFloat()
			from, ok2 := r.Get(entry).AsFloat()
			if !ok1 || !ok2 {
				return table.Null()
			}
			return table.Float(to - from)
		})
	}

	df.Set("EarnedIncomeExitHas", positive(earnedIncome+exitSuffix))
	df.Set("EarnedIncomeExitChange", change(earnedIncome+exitSuffix, earnedIncome))
	df.Set("CashIncomeExitHas", positive("Last30DayIncome"+exitSuffix))
	df.Set("CashIncomeExitChange", change("Last30DayIncome"+exitSuffix, "Last30DayIncome"))

	df.Set("NCBIncomeHas", df.AnyTrue(append(append([]string(nil), NCBTypes...), NCBTypesExit...)...))
	df.Set("NCBIncomeExitHas", df.AnyTrue(NCBTypesExit...))
}
