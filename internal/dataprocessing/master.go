package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"hmiscli/internal/table"
)

// cleanMaster builds the case-record table. master_all keeps every record;
// master keeps records created after the switch date and adds the client
// history lookback computed from the cleaned master_all.
func (c *Cleaner) cleanMaster(ctx context.Context, st *step, df *table.Table) (*table.Table, error) {
	providers, err := c.dependency(ctx, st, Providers)
	if err != nil {
		return nil, err
	}
	df, err = df.Join(providers, table.JoinOptions{
		LeftOn:   []string{"ProviderID"},
		RightOn:  []string{"Provider"},
		How:      table.LeftJoin,
		Suffixes: table.DefaultSuffixes,
	})
	if err != nil {
		return nil, fmt.Errorf("merge providers: %w", err)
	}

	st.badCells += parseDates(df, "DateCreated", "DateUpdated")
	if st.name == Master {
		before := df.Len()
		df = df.Filter(func(r table.Row) bool {
			created, ok := r.Get("DateCreated").AsTime()
			return ok && created.After(c.switchAt)
		})
		c.logger.DebugContext(ctx, "Dropped records created before the switch date",
			slog.Int("rows", before-df.Len()),
			slog.Time("switch_date", c.switchAt))
	}

	df.Set("Refused", df.Apply(refused))
	df.Replace("Relationship to HoH", relationshipToHoHReplacements)

	st.badCells += parseDates(df, "ProgramEntryDate", "ProgramExitDate")
	nullDate(df, "ProgramEntryDate", sentinelDate)
	nullDate(df, "ProgramExitDate", sentinelDate)
	df.Set("LengthOfStay", df.Apply(func(r table.Row) table.Value {
		return daysNonNegative(r.Get("ProgramEntryDate"), r.Get("ProgramExitDate"))
	}))

	st.badCells += addAges(df)
	addFamilyComposition(df)
	addRaceEthnicity(df)

	df.ReplaceWithNull("Veteran?", veteranNulls...)
	imputed := append([]table.Value(nil), df.Column("Veteran?")...)
	if imputed == nil {
		imputed = make([]table.Value, df.Len())
	}
	df.Set("Veteran?Imputed", imputed)
	df.FillNull(table.String("No (HUD)"), "Veteran?Imputed")

	if err := c.addDisabilities(ctx, st, df); err != nil {
		return nil, err
	}
	if err := c.addIncome(ctx, st, df); err != nil {
		return nil, err
	}
	if err := c.addNCB(ctx, st, df); err != nil {
		return nil, err
	}

	df.Replace("PreviousLivingSituation", previousLivingSituationReplacements)
	df.Replace("LengthOfStayInPreviousLivingSituation", lengthOfStayInPreviousLivingSituationReplacements)

	if st.name == Master {
		masterAll, err := c.dependency(ctx, st, MasterAll)
		if err != nil {
			return nil, err
		}
		if err := addFirstEntries(df, masterAll); err != nil {
			return nil, err
		}
	}

	zips, err := c.raw.LoadAuxiliary(ctx, Zips)
	if err != nil {
		return nil, err
	}
	known := zips.StringSet("zip")
	df.Set("ValidZipCodeOfLastPermanentAddress?", df.Map("ZipCodeOfLastPermanentAddress", func(v table.Value) table.Value {
		z, ok := v.AsString()
		return table.Bool(ok && z != "99999" && known[z])
	}))

	df.Replace("DestinationAtExit", destinationAtExitReplacements)

	reviews, err := c.dependency(ctx, st, ReviewDetails)
	if err != nil {
		return nil, err
	}
	reviewed := keySet(reviews.Column("EntryID"))
	df.Set("Reviewed?", df.Map("EntryID", func(v table.Value) table.Value {
		k, ok := v.Key()
		return table.Bool(ok && reviewed[k])
	}))

	services, err := c.dependency(ctx, st, Services)
	if err != nil {
		return nil, err
	}
	addServices(df, services)

	addCaseOutcomes(df, c.dumpDate)
	addReentries(df, c.dumpDate)
	addIncomeOutcomes(df)

	before := df.Len()
	df = deduplicateEntryID(df)
	if dropped := before - df.Len(); dropped > 0 {
		c.logger.InfoContext(ctx, "Removed duplicate entries",
			slog.String("table", st.name),
			slog.Int("rows", dropped))
	}
	return df, nil
}

// refused reports whether the client refused any question
func refused(r table.Row) table.Value {
	hit := false
	r.Each(func(_ string, v table.Value) {
		if s, ok := v.AsString(); ok && refusedAnswers[s] {
			hit = true
		}
	})
	return table.Bool(hit)
}

// addAges derives the birth date, the age at entry, and its buckets. It
// returns the number of unparseable birth years.
func addAges(df *table.Table) int {
	df.ReplaceWithNull("YearOfBirth", "#NUM!")
	bad := 0
	df.Set("YearOfBirth", df.Map("YearOfBirth", func(v table.Value) table.Value {
		switch v.Kind() {
		case table.KindNull, table.KindTime:
			return v
		case table.KindString:
			if t, err := time.Parse("2006", strings.TrimSuffix(v.Str(), ".0")); err == nil {
				return table.Time(t)
			}
		case table.KindFloat:
			return table.Time(time.Date(int(v.Num()), 1, 1, 0, 0, 0, 0, time.UTC))
		}
		bad++
		return table.Null()
	}))

	age := df.Apply(func(r table.Row) table.Value {
		entered, ok1 := r.Get("ProgramEntryDate").AsTime()
		born, ok2 := r.Get("YearOfBirth").AsTime()
		if !ok1 || !ok2 {
			return table.Null()
		}
		return table.Int(wholeYears(born, entered))
	})
	df.Set("AgeEntered", age)
	df.Set("AgeEnteredBucket", df.Map("AgeEntered", AgeBucket))
	df.Set("AgeEnteredBucketDFSS", df.Map("AgeEntered", DFSSAgeBucket))
	return bad
}

func addRaceEthnicity(df *table.Table) {
	df.ReplaceWithNull("Ethnicity", ethnicityNulls...)
	df.Replace("PrimaryRace", primaryRaceReplacements)
	df.Set("Race/Ethnicity (4-way)", df.Apply(func(r table.Row) table.Value {
		if s, _ := r.Get("Ethnicity").AsString(); s == hispanicLatino {
			return table.String("Hispanic/Latino (4-way)")
		}
		race, ok := r.Get("PrimaryRace").AsString()
		if !ok {
			return table.Null()
		}
		if four, known := race4Way[race]; known {
			return table.String(four)
		}
		return table.Null()
	}))
}

// keySet collects the canonical keys of the non-null values
func keySet(values []table.Value) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if k, ok := v.Key(); ok {
			set[k] = true
		}
	}
	return set
}

// deduplicateEntryID keeps one row per EntryID. Among duplicates the first
// row with a Relationship to HoH wins, else the first row. Entries where no
// duplicate has a relationship are kept rather than dropped.
func deduplicateEntryID(df *table.Table) *table.Table {
	ids := df.Column("EntryID")
	chosen := make(map[string]int, df.Len())
	var order []string
	for i, v := range ids {
		k, ok := v.Key()
		if !ok {
			k = "\x00null"
		}
		prev, seen := chosen[k]
		if !seen {
			chosen[k] = i
			order = append(order, k)
			continue
		}
		if df.Get("Relationship to HoH", prev).IsNull() && !df.Get("Relationship to HoH", i).IsNull() {
			chosen[k] = i
		}
	}
	rows := make([]int, 0, len(order))
	for _, k := range order {
		rows = append(rows, chosen[k])
	}
	sort.Ints(rows)
	return df.Take(rows)
}
