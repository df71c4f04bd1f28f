package dataprocessing

import (
	"fmt"
	"sort"
	"time"

	"hmiscli/internal/table"
)

const homelessnessProgramSuffix = "HomelessnessProgram"

// firstEntry computes, for every row of ma, the client's first program
// entry: its date, its program type, and the days since it. Each output
// column takes the first non-null value in entry-date order, so the type can
// come from a later record when the earliest one has none.
func firstEntry(ma *table.Table, suffix string) *table.Table {
	sorted := ma.SortBy("ProgramEntryDate", false)
	type first struct{ date, programType table.Value }
	firsts := make(map[string]*first)
	for i := 0; i < sorted.Len(); i++ {
		k, ok := sorted.Get("ClientUniqueID", i).Key()
		if !ok {
			continue
		}
		f := firsts[k]
		if f == nil {
			f = &first{}
			firsts[k] = f
		}
		if f.date.IsNull() {
			f.date = sorted.Get("ProgramEntryDate", i)
		}
		if f.programType.IsNull() {
			f.programType = sorted.Get("ProgramType", i)
		}
	}

	var rows []int
	for i := 0; i < ma.Len(); i++ {
		if k, ok := ma.Get("ClientUniqueID", i).Key(); ok && firsts[k] != nil {
			rows = append(rows, i)
		}
	}
	out := table.Sized(len(rows))
	ids := make([]table.Value, len(rows))
	dates := make([]table.Value, len(rows))
	types := make([]table.Value, len(rows))
	since := make([]table.Value, len(rows))
	for j, i := range rows {
		k, _ := ma.Get("ClientUniqueID", i).Key()
		f := firsts[k]
		ids[j] = ma.Get("EntryID", i)
		dates[j] = f.date
		types[j] = f.programType
		since[j] = daysNonNegative(f.date, ma.Get("ProgramEntryDate", i))
	}
	out.Set("EntryID", ids)
	out.Set("ProgramEntryDateOfFirstEntry"+suffix, dates)
	out.Set("ProgramTypeOfFirstEntry"+suffix, types)
	out.Set("DaysSinceFirstEntry"+suffix, since)
	return out
}

// addFirstEntries adds the first-entry lookback over all programs and over
// homelessness programs only
func addFirstEntries(df, masterAll *table.Table) error {
	if err := df.MergeByKey(firstEntry(masterAll, ""), "EntryID", "EntryID"); err != nil {
		return fmt.Errorf("merge first entries: %w", err)
	}
	hp := masterAll.Filter(func(r table.Row) bool { return r.Get("HomelessnessProgram?").IsTrue() })
	if err := df.MergeByKey(firstEntry(hp, homelessnessProgramSuffix), "EntryID", "EntryID"); err != nil {
		return fmt.Errorf("merge first homelessness program entries: %w", err)
	}
	df.Set("DaysSinceFirstEntryBucket", df.Map("DaysSinceFirstEntry", DaysSinceFirstEntryBucket))
	df.Set("DaysSinceFirstEntryHomelessnessProgramBucket",
		df.Map("DaysSinceFirstEntry"+homelessnessProgramSuffix, DaysSinceFirstEntryBucket))
	return nil
}

type serviceEvent struct {
	start time.Time
	code  string
}

// addServices flags the first-level service types a client received during
// each stay: entry <= service start < exit. Stays without an exit date get
// no services.
func addServices(df, services *table.Table) {
	byClient := make(map[string][]serviceEvent)
	for i := 0; i < services.Len(); i++ {
		k, ok := services.Get("ClientID", i).Key()
		if !ok {
			continue
		}
		start, ok := services.Get("ServiceStartDate", i).AsTime()
		if !ok {
			continue
		}
		code, ok := services.Get("ServiceTypeL1", i).AsString()
		if !ok {
			continue
		}
		byClient[k] = append(byClient[k], serviceEvent{start: start, code: code})
	}

	received := make(map[string]map[string]bool)
	categories := make(map[string]bool)
	for i := 0; i < df.Len(); i++ {
		client, ok := df.Get("ClientID", i).Key()
		if !ok {
			continue
		}
		entry, ok1 := df.Get("ProgramEntryDate", i).AsTime()
		exit, ok2 := df.Get("ProgramExitDate", i).AsTime()
		id, ok3 := df.Get("EntryID", i).Key()
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		for _, ev := range byClient[client] {
			if ev.start.Before(entry) || !ev.start.Before(exit) {
				continue
			}
			if received[id] == nil {
				received[id] = make(map[string]bool)
			}
			received[id][ev.code] = true
			categories[ev.code] = true
		}
	}

	codes := make([]string, 0, len(categories))
	for code := range categories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	ids := df.Column("EntryID")
	for _, code := range codes {
		col := make([]table.Value, df.Len())
		for i, v := range ids {
			k, ok := v.Key()
			if !ok {
				continue
			}
			if received[k][code] {
				col[i] = table.Bool(true)
			}
		}
		df.Set(code+serviceSuffix, col)
	}

	serviceCols := suffixed(ServiceTypes, serviceSuffix)
	df.FillNull(table.Bool(false), serviceCols...)
	df.Set("Services?", df.AnyTrue(serviceCols...))
}

type programEntry struct {
	date        time.Time
	programType table.Value
}

// addReentries finds, for each exit, the client's next entry into a
// homelessness program and derives the windowed reentry outcomes
func addReentries(df *table.Table, dump time.Time) {
	entries := make(map[string][]programEntry)
	for i := 0; i < df.Len(); i++ {
		if !df.Get("HomelessnessProgram?", i).IsTrue() {
			continue
		}
		k, ok := df.Get("ClientUniqueID", i).Key()
		if !ok {
			continue
		}
		date, ok := df.Get("ProgramEntryDate", i).AsTime()
		if !ok {
			continue
		}
		entries[k] = append(entries[k], programEntry{date: date, programType: df.Get("ProgramType", i)})
	}
	for _, list := range entries {
		sort.SliceStable(list, func(a, b int) bool { return list[a].date.Before(list[b].date) })
	}

	n := df.Len()
	reentryDate := make([]table.Value, n)
	reentryType := make([]table.Value, n)
	for i := 0; i < n; i++ {
		exit, ok := df.Get("ProgramExitDate", i).AsTime()
		if !ok {
			continue
		}
		k, ok := df.Get("ClientUniqueID", i).Key()
		if !ok {
			continue
		}
		list := entries[k]
		j := sort.Search(len(list), func(j int) bool { return list[j].date.After(exit) })
		if j < len(list) {
			reentryDate[i] = table.Time(list[j].date)
			reentryType[i] = list[j].programType
		}
	}
	df.Set("ProgramEntryDateReentry", reentryDate)
	df.Set("ProgramTypeReentry", reentryType)

	six := reenteredWithin(df, 6*averageMonth, dump)
	twelve := reenteredWithin(df, 12*averageMonth, dump)
	df.Set("Reentered6Month", six)
	df.Set("Reentered12Month", twelve)
	df.Set("Reentered6MonthFromPermanent", onlyPermanent(df, six))
	df.Set("Reentered12MonthFromPermanent", onlyPermanent(df, twelve))
}

// reenteredWithin reports whether each exit was followed by a reentry
// within window. Exits whose window does not end before the dump date are
// null because the outcome cannot be observed yet.
func reenteredWithin(df *table.Table, window time.Duration, dump time.Time) []table.Value {
	out := make([]table.Value, df.Len())
	for i := range out {
		exit, ok := df.Get("ProgramExitDate", i).AsTime()
		if !ok {
			continue
		}
		deadline := exit.Add(window)
		if !deadline.Before(dump) {
			continue
		}
		reentry, ok := df.Get("ProgramEntryDateReentry", i).AsTime()
		out[i] = table.Bool(ok && deadline.After(reentry))
	}
	return out
}

func onlyPermanent(df *table.Table, values []table.Value) []table.Value {
	out := make([]table.Value, len(values))
	for i, v := range values {
		if s, _ := df.Get("CaseOutcome", i).AsString(); s == OutcomePermanent {
			out[i] = v
		}
	}
	return out
}
