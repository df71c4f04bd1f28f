package dataprocessing

import "hmiscli/internal/table"

type bucket struct {
	below float64
	label string
}

// bucketize returns the label of the first bucket whose bound exceeds the
// value, or last when none does. Null stays null.
func bucketize(v table.Value, buckets []bucket, last string) table.Value {
	f, ok := v.AsFloat()
	if !ok {
		return table.Null()
	}
	for _, b := range buckets {
		if f < b.below {
			return table.String(b.label)
		}
	}
	return table.String(last)
}

var ageBucketBounds = []bucket{
	{6, ageBuckets[0]},
	{18, ageBuckets[1]},
	{65, ageBuckets[2]},
}

// AgeBucket categorizes an age in years
func AgeBucket(age table.Value) table.Value {
	return bucketize(age, ageBucketBounds, ageBuckets[3])
}

var dfssAgeBucketBounds = []bucket{
	{1, "DFSS: Under 1 year"},
	{6, "DFSS: 1 to 5 years"},
	{13, "DFSS: 6 to 12 years"},
	{18, "DFSS: 13 to 17 years"},
	{25, "DFSS: 18 to 24 years"},
	{31, "DFSS: 25 to 30 years"},
	{51, "DFSS: 31 to 50 years"},
	{62, "DFSS: 51 to 61 years"},
}

// DFSSAgeBucket categorizes an age the way the city's family services
// department reports it
func DFSSAgeBucket(age table.Value) table.Value {
	return bucketize(age, dfssAgeBucketBounds, "DFSS: 62 years and over")
}

// IncomeBucket categorizes a monthly income in dollars
func IncomeBucket(dollars table.Value) table.Value {
	f, ok := dollars.AsFloat()
	switch {
	case !ok:
		return table.Null()
	case f == 0:
		return table.String("Zero dollars")
	case f <= 500:
		return table.String("1 to 500 dollars")
	case f <= 1000:
		return table.String("501 to 1000 dollars")
	case f <= 2000:
		return table.String("1001 to 2000 dollars")
	case f <= 3000:
		return table.String("2001 to 3000 dollars")
	}
	return table.String("3001 dollars and over")
}

// DaysSinceFirstEntryBucket categorizes the days since a client first
// entered a program
func DaysSinceFirstEntryBucket(d table.Value) table.Value {
	f, ok := d.AsFloat()
	switch {
	case !ok:
		return table.Null()
	case f < 1:
		return table.String("0 days")
	case f <= 7:
		return table.String("One week or less")
	case f < 30:
		return table.String("More than one week, but less than one month")
	case f <= 90:
		return table.String("One to three months")
	case f < 365:
		return table.String("More than three months, but less than one year")
	}
	return table.String("One year or longer")
}
