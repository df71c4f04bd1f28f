package features

// Unused lists identifiers, raw fields, and intermediate columns that are
// never modeled
var Unused = []string{
	"ClientUniqueID",
	"ClientID",
	"HouseholdID",
	"Head Of Household?",
	"Relationship to HoH",
	"Entry Exit GroupID",
	"EntryID",
	"ProviderID",
	"ProgramEntryDate",
	"ProgramExitDate",
	"PrimaryRace",
	"Ethnicity",
	"Veteran?",
	"YearOfBirth",
	"AgeEntered",
	"AgeEnteredBucketDFSS",
	"SecondaryRace",
	"PrimaryLanguageSpoken",
	"ZipCodeOfLastPermanentAddress",
	"ZipDataQuality",
	"ExitReason",
	"Anonymous",
	"DateCreated",
	"DateUpdated",
	"Provider",
	"ProviderLevel",
	"ParentProvider",
	"CurrentlyOperational",
	"AddressLine1",
	"AddressLine2",
	"City",
	"State",
	"NumActiveUsers",
	"ProgramTypeCode",
	"AltProgramType",
	"Last30DayIncome",
	"ProgramEntryDateOfFirstEntry",
	"ProgramTypeOfFirstEntry",
	"ProgramEntryDateOfFirstEntryHomelessnessProgram",
	"ProgramTypeOfFirstEntryHomelessnessProgram",
	"DaysSinceFirstEntry",
	"DaysSinceFirstEntryHomelessnessProgram",
	"DaysSinceFirstEntryHomelessnessProgramBucket",
	"ValidZipCodeOfLastPermanentAddress?",
	"ProgramEntryDateReentry",
	"ProgramTypeReentry",
}

var demographics = []string{
	"Race/Ethnicity (4-way)",
	"Veteran?Imputed",
	"Refused",
	"AgeEnteredBucket",
}

var housingDemographics = []string{
	"PreviousLivingSituation",
	"LengthOfStayInPreviousLivingSituation",
	"DaysSinceFirstEntryBucket",
}

var familyDemographics = []string{
	"Family?",
	"SingleAdult?",
	"Children?",
	"SingleAdultWithChildren?",
	"Under 6 years?",
	"6 to 17 years?",
	"18 to 64 years?",
	"65 years and over?",
}

var familyCounts = []string{
	"Under 6 years",
	"6 to 17 years",
	"18 to 64 years",
	"65 years and over",
	"OtherFamilyMembers",
}

var exitStuff = []string{
	"DestinationAtExit",
	"LengthOfStay",
}

var program = []string{
	"ProgramType",
	"Reviewed?",
}

var programAggs = []string{
	"ProgramTypeAggregate",
	"HomelessnessProgram?",
}

var programLocation = []string{"Zip"}

var disabilitiesEntry = []string{
	"Alcohol Abuse (HUD 40118) Entry",
	"Both alcohol and drug abuse (HUD 40118) Entry",
	"Developmental (HUD 40118) Entry",
	"Drug Abuse (HUD 40118) Entry",
	"HIV/AIDS (HUD 40118) Entry",
	"Mental Health Problem (HUD 40118) Entry",
	"Physical (HUD 40118) Entry",
	"Disabled? Entry",
}

var disabilitiesReview = []string{
	"Alcohol Abuse (HUD 40118) Review",
	"Both alcohol and drug abuse (HUD 40118) Review",
	"Developmental (HUD 40118) Review",
	"Drug Abuse (HUD 40118) Review",
	"HIV/AIDS (HUD 40118) Review",
	"Mental Health Problem (HUD 40118) Review",
	"Physical (HUD 40118) Review",
	"Disabled? Review",
}

var disabilitiesBreakout = []string{
	"Mental Health Problem (HUD 40118)",
	"Physical (HUD 40118)",
	"Drug Abuse (HUD 40118)",
	"HIV/AIDS (HUD 40118)",
	"Alcohol Abuse (HUD 40118)",
	"Both alcohol and drug abuse (HUD 40118)",
	"Developmental (HUD 40118)",
}

var disabilities = []string{"Disabled?"}

var incomeBreakout = []string{
	"Alimony or Other Spousal Support (HUD)",
	"Child Support (HUD)",
	"Contributions From Other People",
	"Earned Income (HUD)",
	"General Assistance (HUD)",
	"Pension From a Former Job (HUD)",
	"Private Disability Insurance (HUD)",
	"Private Health Insurance",
	"Rental Income",
	"Retirement Disability",
	"Retirement Income From Social Security (HUD)",
	"SSDI (HUD)",
	"SSI (HUD)",
	"TANF (HUD)",
	"Unemployment Insurance (HUD)",
	"Veteran's Disability Payment (HUD)",
	"Veteran's Pension (HUD)",
	"Worker's Compensation (HUD)",
}

var income = []string{"Last30DayIncomeBucket"}

var incomeExit = []string{
	"Alimony or Other Spousal Support (HUD) Exit",
	"Child Support (HUD) Exit",
	"Contributions From Other People Exit",
	"Dividends (Investments) Exit",
	"Earned Income (HUD) Exit",
	"General Assistance (HUD) Exit",
	"Pension From a Former Job (HUD) Exit",
	"Private Disability Insurance (HUD) Exit",
	"Private Health Insurance Exit",
	"Rental Income Exit",
	"Retirement Disability Exit",
	"Retirement Income From Social Security (HUD) Exit",
	"SSDI (HUD) Exit",
	"SSI (HUD) Exit",
	"TANF (HUD) Exit",
	"Unemployment Insurance (HUD) Exit",
	"Veteran's Disability Payment (HUD) Exit",
	"Veteran's Pension (HUD) Exit",
	"Worker's Compensation (HUD) Exit",
	"Last30DayIncome Exit",
	"EarnedIncomeExitChange",
	"CashIncomeExitChange",
}

var incomeOutcomes = []string{
	"EarnedIncomeExitHas",
	"CashIncomeExitHas",
}

var ncbBreakout = []string{
	"MEDICAID (HUD)",
	"MEDICARE (HUD)",
	"SCHIP (HUD)",
	"Section 8, Public Housing or rental assistance (HUD)",
	"Special Supplemental Nutrition Program for WIC (HUD)",
	"Supplemental Nutrition Assistance Program (Food Stamps) (HUD)",
	"Temporary rental assistance (HUD)",
	"Veteran's Administration (VA) Medical Services (HUD)",
}

var ncb = []string{"NCBIncomeHas"}

var ncbExit = []string{
	"MEDICAID (HUD) Exit",
	"MEDICARE (HUD) Exit",
	"SCHIP (HUD) Exit",
	"Section 8, Public Housing or rental assistance (HUD) Exit",
	"Special Supplemental Nutrition Program for WIC (HUD) Exit",
	"Supplemental Nutrition Assistance Program (Food Stamps) (HUD) Exit",
	"Temporary rental assistance (HUD) Exit",
	"Veteran's Administration (VA) Medical Services (HUD) Exit",
}

var ncbOutcomes = []string{"NCBIncomeExitHas"}

var servicesBreakout = []string{
	"B Service",
	"D Service",
	"F Service",
	"H Service",
	"L Service",
	"N Service",
	"P Service",
	"R Service",
	"T Service",
}

var services = []string{"Services?"}

// HousingOutcomes are the modeling targets
var HousingOutcomes = []string{
	"CaseOutcome",
	"CaseSuccess",
	"Reentered6Month",
	"Reentered12Month",
	"Reentered6MonthFromPermanent",
	"Reentered12MonthFromPermanent",
}

var reduced = []string{
	"ProgramType",
	"Reviewed?",
	"Veteran?Imputed",
	"PreviousLivingSituation",
	"DaysSinceFirstEntryBucket",
	"AgeEnteredBucket",
	"Last30DayIncomeBucket",
	"NCBIncomeHas",
}

func concat(sets ...[]string) []string {
	var out []string
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

var builtinSets = map[string][]string{
	"unused":                Unused,
	"demographics":          demographics,
	"housing_demographics":  housingDemographics,
	"family_demographics":   familyDemographics,
	"family_counts":         familyCounts,
	"exit_stuff":            exitStuff,
	"program":               program,
	"program_aggs":          programAggs,
	"program_location":      programLocation,
	"disabilities_entry":    disabilitiesEntry,
	"disabilities_review":   disabilitiesReview,
	"disabilities_breakout": disabilitiesBreakout,
	"disabilities":          disabilities,
	"income_breakout":       incomeBreakout,
	"income":                income,
	"income_exit":           incomeExit,
	"income_outcomes":       incomeOutcomes,
	"ncb_breakout":          ncbBreakout,
	"ncb":                   ncb,
	"ncb_exit":              ncbExit,
	"ncb_outcomes":          ncbOutcomes,
	"services_breakout":     servicesBreakout,
	"services":              services,
	"housing_outcomes":      HousingOutcomes,
	"reduced":               reduced,
	"all_sets": concat(demographics, housingDemographics, familyCounts, program,
		disabilities, income, ncb, services),
}

// Weka classifier command lines
var builtinClassifiers = map[string]string{
	"random_forest_small":  "trees.RandomForest -I 5",
	"random_forest":        "trees.RandomForest",
	"random_forest_large":  "trees.RandomForest -I 100",
	"decision_tree":        "trees.J48",
	"decision_tree_pruned": "trees.J48 -M 50",
	"logistic_small":       "functions.Logistic -M 10",
	"logistic":             "functions.Logistic",
}
