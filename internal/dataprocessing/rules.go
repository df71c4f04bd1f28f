package dataprocessing

import (
	"time"

	"hmiscli/internal/table"
)

// remap builds a Replace mapping: pairs rename a category, nulls erase it
func remap(pairs map[string]string, nulls ...string) map[string]table.Value {
	m := make(map[string]table.Value, len(pairs)+len(nulls))
	for from, to := range pairs {
		m[from] = table.String(to)
	}
	for _, n := range nulls {
		m[n] = table.Null()
	}
	return m
}

func suffixed(names []string, suffix string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n + suffix
	}
	return out
}

// sentinelDate is the placeholder the exports use for an unknown date
var sentinelDate = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// pshPermanentTenure is the stay, in days, after which permanent supportive
// housing counts as a permanent outcome
const pshPermanentTenure = 180

// averageMonth is the mean Gregorian month
const averageMonth = 2629746 * time.Second

const permanentSupportiveHousing = "Permanent supportive housing (HUD)"

var refusedAnswers = map[string]bool{"Refused (HUD)": true, "refused": true}

var relationshipToHoHReplacements = remap(map[string]string{
	"Son":                "Child",
	"Daughter":           "Child",
	"Step-son":           "Child",
	"Step-daughter":      "Child",
	"Husband":            "Spouse",
	"Wife":               "Spouse",
	"Significant other":  "Spouse",
	"Father":             "Parent",
	"Mother":             "Parent",
	"Husband and Father": "Parent",
	"Wife and Mother":    "Parent",
	"Guardian":           "Parent",
	"Grandson":           "Grandchild",
	"Granddaughter":      "Grandchild",
	"In-Law":             "Sibling",
	"Grandfather":        "Grandparent",
	"Grandmother":        "Grandparent",
	"cousin":             "Cousin",
}, "Other relative", "Other non-relative", "Non-Relative", "Unknown", "Other")

var ageBuckets = []string{"Under 6 years", "6 to 17 years", "18 to 64 years", "65 years and over"}

var ethnicityNulls = []string{"Don't Know (HUD)", "Refused (HUD)", "Other (Non-Hispanic/Latino)"}

var primaryRaceReplacements = remap(map[string]string{
	"white":                  "White (HUD)",
	"black/african american": "Black or African American (HUD)",
	"asian":                  "Asian (HUD)",
	"native american":        "American Indian or Alaska Native (HUD)",
},
	"Other",
	"Don't Know (HUD)",
	"Other Multi-Racial",
	"Refused (HUD)",
	"multi-racial",
	"American Indian/Alaskan Native & White (new HUD 40118)",
	"Pacific Islander (HUD 40118)",
	"Black/African American & White (new HUD 40118)",
	"American Indian/Alaskan Native & Black (new HUD 40118)",
	"Asian & White (new HUD 40118)",
)

const hispanicLatino = "Hispanic/Latino (HUD)"

var race4Way = map[string]string{
	"Black or African American (HUD)":                 "Black or African American (4-way)",
	"White (HUD)":                                     "White (4-way)",
	"Native Hawaiian or Other Pacific Islander (HUD)": "Other (4-way)",
	"American Indian or Alaska Native (HUD)":          "Other (4-way)",
	"Asian (HUD)":                                     "Other (4-way)",
}

var veteranNulls = []string{"Don't Know (HUD)", "Refused (HUD)"}

const (
	emergencyShelterPrevious = "Emergency shelter, including hotel or motel paid for with emergency shelter voucher(HUD)"
	transitionalHousing      = "Transitional housing for homeless persons (including homeless youth) (HUD)"
	notMeantForHabitationPLS = "Place not meant for habitation inclusive of 'non-housing service site(outreach programs only)'(HUD)"
	rentalOtherSubsidyPLS    = "Rental by client, with other (non-VASH) housing subsidy (HUD)"
	jailPrison               = "Jail, prison or juvenile detention facility (HUD)"
)

var previousLivingSituationReplacements = remap(map[string]string{
	"Emergency Shelter":                              emergencyShelterPrevious,
	"emergency shelter (hud)":                        emergencyShelterPrevious,
	"Transitional Housing for Homeless Person":       transitionalHousing,
	"Interim Housing":                                transitionalHousing,
	"Permanent Housing for Formerly Homeless Person": "Permanent housing for formerly homeless persons(such as SHP, S+C, or SRO Mod Rehab)(HUD)",
	"Psychiatric Facility":                           "Psychiatric hospital or other psychiatric facility (HUD)",
	"Substance Abuse Treatment Facility":             "Substance abuse treatment facility or detox center (HUD)",
	"Hospital":                                       "Hospital (non-psychiatric) (HUD)",
	"hospital (hud)":                                 "Hospital (non-psychiatric) (HUD)",
	"Prison":                                         jailPrison,
	"Jail":                                           jailPrison,
	"jail, prison, or juvenile facility (hud)":       jailPrison,
	"living with family (hud)":                       "Staying or living in a family member's room, apartment or house (HUD)",
	"living with friends (hud)":                      "Staying or living in a friend's room, apartment or house (HUD)",
	"Living with Someone Else (like Family or Friends)":            "Staying or living in a friend's room, apartment or house (HUD)",
	"Hotel or Motel":                                               "Hotel or motel paid for without emergency shelter voucher (HUD)",
	"hotel/motel without emergency shelter":                        "Hotel or motel paid for without emergency shelter voucher (HUD)",
	"Foster Care Home":                                             "Foster care home or foster care group home (HUD)",
	"Anywhere Outside (like Streets, Parks, etc.)":                 notMeantForHabitationPLS,
	"A Car or Other Vehicle":                                       notMeantForHabitationPLS,
	"An Abandoned Building":                                        notMeantForHabitationPLS,
	"At a Transportation Center (like Bus Station, Airport, etc.)": notMeantForHabitationPLS,
	"Subsidized Housing":                                           rentalOtherSubsidyPLS,
	"Public Housing - Non-lease Holder":                            rentalOtherSubsidyPLS,
	"Public Housing-Lease Holder (CHA)":                            rentalOtherSubsidyPLS,
	"Subsidized Rental Housing/Section 8":                          rentalOtherSubsidyPLS,
	"Unsubsidized Rental Housing":                                  "Rental by client, no housing subsidy (HUD)",
	"Recipients Rented Apartment":                                  "Rental by client, no housing subsidy (HUD)",
	"Recipients Own House or Condo":                                "Owned by client, no housing subsidy (HUD)",
},
	"Don't Know (HUD)",
	"don't know",
	"Other (HUD)",
	"Other",
	"Refused (HUD)",
	"don t know (hud)",
	"refused",
	"Domestic Violence Situation",
	"Second Stage Shelter",
)

var lengthOfStayInPreviousLivingSituationReplacements = remap(map[string]string{
	"More than one year":       "One year or longer (HUD)",
	"Seven months to one year": "More than three months, but less than one year (HUD)",
	"Two to three months":      "One to three months (HUD)",
	"Three weeks to one month": "More than one week, but less than one month (HUD)",
	"Less than one week":       "One week or less (HUD)",
	"One to two weeks":         "More than one week, but less than one month (HUD)",
	"Four to six months":       "More than three months, but less than one year (HUD)",
}, "Don't Know (HUD)", "Refused (HUD)", "don t know")

const (
	emergencyShelterExit  = "Emergency shelter, including hotel or motel paid for with emergency shelter voucher (HUD)"
	pshExit               = "Permanent supportive housing for formerly homeless persons(such as SHP, S+C, or SRO Mod Rehab)(HUD)"
	substanceAbuseExit    = "Substance abuse treatment facility or detox center (HUD)"
	rentalNoSubsidy       = "Rental by client, no housing subsidy (HUD)"
	ownedNoSubsidy        = "Owned by client, no housing subsidy (HUD)"
	friendsTemporary      = "Staying or living with friends, temporary tenure (e.g., room apartment or house)(HUD)"
	fosterCare            = "Foster care home or foster care group home (HUD)"
	notMeantForHabitation = "Place not meant for habitation (e.g., a vehicle or anywhere outside) (HUD)"
	rentalOtherSubsidy    = "Rental by client, other (non-VASH) housing subsidy (HUD)"
	friendsPermanent      = "Staying or living with friends, permanent tenure (HUD)"
)

var destinationAtExitReplacements = remap(map[string]string{
	"Emergency shelter":                                  emergencyShelterExit,
	"Runaway facility":                                   emergencyShelterExit,
	"Transitional housing for homeless persons":          transitionalHousing,
	"transitional: transitional housing for homeless":    transitionalHousing,
	"Other support housing":                              pshExit,
	"Other: Other supportive housing":                    pshExit,
	"Permanent: Shelter Plus Care":                       pshExit,
	"Psychiatric facility":                               "Psychiatric hospital or other psychiatric facility (HUD)",
	"Inpatient alcohol or other drug treatment facility": substanceAbuseExit,
	"Substance abuse treatment facility":                 substanceAbuseExit,
	"Hospital":                                           "Hospital (non-psychiatric) (HUD)",
	"Jail":                                               jailPrison,
	"institution: jail/prison":                           jailPrison,
	"institution: inpatient alcohol/drug facility":       jailPrison,
	"Prison":                                             jailPrison,
	"Juvenile detention center":                          jailPrison,
	"Rental house or apartment (no subsidy)":             rentalNoSubsidy,
	"permanent: rental house/apartment (no subsidy)":     rentalNoSubsidy,
	"Rental room/house/apartment":                        rentalNoSubsidy,
	"Own house/apartment":                                ownedNoSubsidy,
	"Homeownership":                                      ownedNoSubsidy,
	"Staying in a family members room/apartment":         "Staying or living with family, temporary tenure (e.g., room, apartment or house)(HUD)",
	"Residence with family or friends":                   friendsTemporary,
	"Staying in a friend's room/apartment/house":         friendsTemporary,
	"Transitional: Moved in with family/friends":         friendsTemporary,
	"Foster care home":                                   fosterCare,
	"Child care residential institution":                 fosterCare,
	"Anywhere outside":                                   notMeantForHabitation,
	"Places not meant for human habitation (e.g street)": notMeantForHabitation,
	"Other subsidized house or apartment":                rentalOtherSubsidy,
	"HOME subsidized house or apartment":                 rentalOtherSubsidy,
	"permanent: moved in with family/friends":            friendsPermanent,
	"Moved in with family or friends":                    friendsPermanent,
},
	"Deceased",
	"Don't Know (HUD)",
	"Unknown",
	"Other (HUD)",
	"other",
	"Refused (HUD)",
	"Returning to State of Origin",
	"Deceased (HUD)",
	"Shelter Plus Care",
	"Section 8",
	"Public Housing",
	"Permanent",
	"Permanent: Section 8",
	"Residence with other parent",
)

// Case outcomes
const (
	OutcomePermanent     = "Permanent"
	OutcomeTemporary     = "Temporary"
	OutcomeInstitutional = "Institutional"
)

var caseOutcomes = map[string]string{
	ownedNoSubsidy:   OutcomePermanent,
	friendsPermanent: OutcomePermanent,
	"Staying or living with family, permanent tenure (HUD)": OutcomePermanent,
	jailPrison:         OutcomeInstitutional,
	rentalNoSubsidy:    OutcomePermanent,
	"Staying or living with family, temporary tenure (e.g., room, apartment or house)(HUD)": OutcomeTemporary,
	emergencyShelterExit:                     OutcomeTemporary,
	rentalOtherSubsidy:                       OutcomePermanent,
	"Hospital (non-psychiatric) (HUD)":       OutcomeInstitutional,
	transitionalHousing:                      OutcomeTemporary,
	"Rental by client, VASH Subsidy (HUD)":   OutcomePermanent,
	"Psychiatric hospital or other psychiatric facility (HUD)": OutcomeInstitutional,
	friendsTemporary:   OutcomeTemporary,
	pshExit:            OutcomePermanent,
	substanceAbuseExit: OutcomeInstitutional,
	"Hotel or motel paid for without emergency shelter voucher (HUD)": OutcomeTemporary,
	"Owned by client, with housing subsidy (HUD)":                     OutcomePermanent,
	"Safe Haven (HUD)":      OutcomeTemporary,
	notMeantForHabitation:   OutcomeTemporary,
	fosterCare:              OutcomeInstitutional,
}

var streetOutreachProviders = map[string]bool{
	"Heartland Health Outreach Pathways Home Outpatient(533)": true,
	"Matthew House, Inc. - Diaconia(352)":                     true,
	"Thresholds, Inc. Mobile Assessment Outreach(506)":        true,
}

const streetOutreach = "Street Outreach"

var programTypeAggregates = remap(map[string]string{
	"Interim": "Transitional housing (HUD)",
	"PHwSS":   "Transitional housing (HUD)",
})

var homelessnessPrograms = map[string]bool{
	"Interim":                                  true,
	"Emergency Shelter (HUD)":                  true,
	"Supportive Services for Veteran Families": true,
	"PHwSS":                                    true,
	"Transitional housing (HUD)":               true,
	streetOutreach:                             true,
}

var disabilityTypeReplacements = remap(map[string]string{
	"Chronic Health Condition":     "Physical (HUD 40118)",
	"Physical/Medical (HUD 40118)": "Physical (HUD 40118)",
	"Vision Impaired":              "Physical (HUD 40118)",
	"Hearing Impaired":             "Physical (HUD 40118)",
	"Other":                        "Physical (HUD 40118)",
	"Dual Diagnosis":               "Both alcohol and drug abuse (HUD 40118)",
})

// DisabilityTypes are the disability categories after remapping
var DisabilityTypes = []string{
	"Mental Health Problem (HUD 40118)",
	"Physical (HUD 40118)",
	"Drug Abuse (HUD 40118)",
	"HIV/AIDS (HUD 40118)",
	"Alcohol Abuse (HUD 40118)",
	"Both alcohol and drug abuse (HUD 40118)",
	"Developmental (HUD 40118)",
}

var incomeReplacements = remap(map[string]string{
	"Employment amount":             "Earned Income (HUD)",
	"Self Employment Wages":         "Earned Income (HUD)",
	"Veteran 's Pension (HUD)":      "Veteran's Pension (HUD)",
	"Alimony":                       "Alimony or Other Spousal Support (HUD)",
	"SSI/P3":                        "SSI (HUD)",
	"Pension/Retirement":            "Pension From a Former Job (HUD)",
	"Family/Friend Regular Support": "Contributions From Other People",
	"Annuities":                     "Pension From a Former Job (HUD)",
	"Railroad Retirement":           "Pension From a Former Job (HUD)",
},
	"Food Stamps (HUD)",
	"Participate in Kid Care insurance",
	"State Disability",
	"Aged, Blind & Disabled",
	"Other (HUD)",
	"No Financial Resources (HUD)",
)

const earnedIncome = "Earned Income (HUD)"

// IncomeTypes are the entry income sources after remapping
var IncomeTypes = []string{
	"Alimony or Other Spousal Support (HUD)",
	"Child Support (HUD)",
	"Contributions From Other People",
	earnedIncome,
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

// IncomeTypesExit are the exit income columns; exits also report dividends
var IncomeTypesExit = append(suffixed(IncomeTypes, exitSuffix), "Dividends (Investments)"+exitSuffix)

var ncbReplacements = remap(nil,
	"Other Source (HUD)",
	"Other TANF-Funded Services (HUD)",
	"TANF Child Care Services (HUD)",
	"TANF Transportation Services (HUD)",
	"No Financial Resources (HUD)",
	"Veteran 's Pension (HUD)",
	"SSDI (HUD)",
	"TANF (HUD)",
	"SSI/P3",
	"Employment amount",
)

// NCBTypes are the non-cash benefit sources after remapping
var NCBTypes = []string{
	"MEDICAID (HUD)",
	"MEDICARE (HUD)",
	"SCHIP (HUD)",
	"Section 8, Public Housing or rental assistance (HUD)",
	"Special Supplemental Nutrition Program for WIC (HUD)",
	"Supplemental Nutrition Assistance Program (Food Stamps) (HUD)",
	"Temporary rental assistance (HUD)",
	"Veteran's Administration (VA) Medical Services (HUD)",
}

// NCBTypesExit are the exit non-cash benefit columns
var NCBTypesExit = suffixed(NCBTypes, exitSuffix)

var housingStatusNulls = []string{"Don't Know (HUD)", "Refused (HUD)"}

var housingStatusAggregates = remap(map[string]string{
	"Stably housed (HUD)":                                       "Stably housed",
	"Literally Homeless (HUD)":                                  "Literally Homeless",
	"Unstably housed and at-risk of losing their housing (HUD)": "Unstably housed",
	"Imminently losing their housing (HUD)":                     "Unstably housed",
})

// ServiceTypes are the first-level service taxonomy codes seen in stays
var ServiceTypes = []string{"B", "D", "F", "H", "L", "N", "P", "R", "T"}

const (
	entrySuffix   = " Entry"
	reviewSuffix  = " Review"
	exitSuffix    = " Exit"
	serviceSuffix = " Service"
)
