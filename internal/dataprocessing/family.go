package dataprocessing

import "hmiscli/internal/table"

// familyKey is the household a row belongs to: its Entry Exit GroupID, or
// the negated EntryID for clients entering alone
func familyKey(r table.Row) (string, bool) {
	if k, ok := r.Get("Entry Exit GroupID").Key(); ok {
		return k, true
	}
	id, ok := r.Get("EntryID").AsString()
	if !ok {
		if f, isNum := r.Get("EntryID").AsFloat(); isNum {
			return table.Float(-f).Key()
		}
		return "", false
	}
	return table.String("-" + id).Key()
}

// addFamilyComposition counts household members per age bucket and derives
// the household shape flags. Members without an age bucket are not counted;
// households with no bucketed member get nulls.
func addFamilyComposition(df *table.Table) {
	index := make(map[string]int, len(ageBuckets))
	for i, b := range ageBuckets {
		index[b] = i
	}

	households := make(map[string]*[4]int)
	keys := make([]string, df.Len())
	present := make([]bool, df.Len())
	for i := 0; i < df.Len(); i++ {
		r := df.Row(i)
		k, ok := familyKey(r)
		if !ok {
			continue
		}
		keys[i], present[i] = k, true
		b, ok := r.Get("AgeEnteredBucket").AsString()
		if !ok {
			continue
		}
		counts := households[k]
		if counts == nil {
			counts = new([4]int)
			households[k] = counts
		}
		counts[index[b]]++
	}

	n := df.Len()
	others := make([]table.Value, n)
	family := make([]table.Value, n)
	singleAdult := make([]table.Value, n)
	children := make([]table.Value, n)
	singleAdultWithChildren := make([]table.Value, n)
	bucketCounts := make([][]table.Value, len(ageBuckets))
	bucketFlags := make([][]table.Value, len(ageBuckets))
	for j := range ageBuckets {
		bucketCounts[j] = make([]table.Value, n)
		bucketFlags[j] = make([]table.Value, n)
	}

	for i := 0; i < n; i++ {
		if !present[i] {
			continue
		}
		counts := households[keys[i]]
		if counts == nil {
			continue
		}
		total := 0
		for j, c := range counts {
			total += c
			bucketCounts[j][i] = table.Int(c)
			bucketFlags[j][i] = table.Bool(c > 0)
		}
		others[i] = table.Int(total - 1)
		family[i] = table.Bool(total-1 > 0)
		single := counts[2]+counts[3] <= 1
		kids := counts[0]+counts[1] > 0
		singleAdult[i] = table.Bool(single)
		children[i] = table.Bool(kids)
		singleAdultWithChildren[i] = table.Bool(single && kids)
	}

	df.Set("OtherFamilyMembers", others)
	df.Set("Family?", family)
	df.Set("SingleAdult?", singleAdult)
	df.Set("Children?", children)
	df.Set("SingleAdultWithChildren?", singleAdultWithChildren)
	for j, b := range ageBuckets {
		df.Set(b, bucketCounts[j])
	}
	for j, b := range ageBuckets {
		df.Set(b+"?", bucketFlags[j])
	}
}
