package dataprocessing

import (
	"fmt"
	"sort"
)

// Cleaned table names
const (
	Master             = "master"
	MasterAll          = "master_all"
	EntryDetails       = "entry_details"
	EntryIncome        = "entry_income"
	EntryNCB           = "entry_ncb"
	EntryDisabilities  = "entry_disabilities"
	ExitStuff          = "exit_stuff"
	ExitIncome         = "exit_income"
	ExitNCB            = "exit_ncb"
	Services           = "services"
	Providers          = "providers"
	ReviewDetails      = "review_details"
	ReviewIncome       = "review_income"
	ReviewNCB          = "review_ncb"
	ReviewDisabilities = "review_disabilities"
)

// Zips is the auxiliary table of known zip codes
const Zips = "zips"

// rawNames maps a table to the base name of its raw export
var rawNames = map[string]string{
	Master:             "Master",
	MasterAll:          "Master",
	EntryDetails:       "EntryDetails",
	EntryIncome:        "EntryIncome",
	EntryNCB:           "EntryNCB",
	EntryDisabilities:  "EntryDisabilities",
	ExitStuff:          "ExitStuff",
	ExitIncome:         "ExitIncome",
	ExitNCB:            "ExitNCB",
	Services:           "Services",
	Providers:          "Providers",
	ReviewDetails:      "ReviewDetail",
	ReviewIncome:       "ReviewIncome",
	ReviewNCB:          "ReviewNCB",
	ReviewDisabilities: "ReviewDisabilities",
}

var masterDependencies = []string{
	Providers,
	EntryDisabilities,
	ReviewDisabilities,
	EntryIncome,
	ExitIncome,
	EntryNCB,
	ExitNCB,
	ReviewDetails,
	Services,
}

// dependencies lists the cleaned tables each cleaner loads
var dependencies = map[string][]string{
	MasterAll: masterDependencies,
	Master:    append(append([]string(nil), masterDependencies...), MasterAll),
}

// RawName returns the raw export base name for a table
func RawName(name string) (string, error) {
	raw, ok := rawNames[name]
	if !ok {
		return "", fmt.Errorf("unknown table %q", name)
	}
	return raw, nil
}

// RawNames returns the table to raw export base name mapping
func RawNames() map[string]string {
	out := make(map[string]string, len(rawNames))
	for k, v := range rawNames {
		out[k] = v
	}
	return out
}

// TableNames returns every cleanable table, sorted
func TableNames() []string {
	names := make([]string, 0, len(rawNames))
	for n := range rawNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the cleaned tables name needs
func Dependencies(name string) []string {
	return append([]string(nil), dependencies[name]...)
}

// CleanOrder returns every table ordered so dependencies come first
func CleanOrder() []string {
	var order []string
	done := make(map[string]bool)
	var visit func(string)
	visit = func(n string) {
		if done[n] {
			return
		}
		done[n] = true
		for _, d := range dependencies[n] {
			visit(d)
		}
		order = append(order, n)
	}
	for _, n := range TableNames() {
		visit(n)
	}
	return order
}
