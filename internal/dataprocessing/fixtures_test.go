package dataprocessing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "hmiscli/internal/errors"
	"hmiscli/internal/table"
)

// memRaw serves raw exports from in-memory CSV text keyed by raw base name
type memRaw struct {
	raw map[string]string
	aux map[string]string
}

func (m memRaw) LoadRaw(_ context.Context, name string) (*table.Table, error) {
	base, err := RawName(name)
	if err != nil {
		return nil, err
	}
	text, ok := m.raw[base]
	if !ok {
		return nil, apperrors.NewNotFoundError("raw export " + base)
	}
	return ReadCSV(strings.NewReader(text), isRawNull)
}

func (m memRaw) LoadAuxiliary(_ context.Context, name string) (*table.Table, error) {
	text, ok := m.aux[name]
	if !ok {
		return nil, apperrors.NewNotFoundError("auxiliary file " + name)
	}
	return ReadCSV(strings.NewReader(text), func(s string) bool { return s == "" })
}

const masterCSV = `EntryID,ClientID,ClientUniqueID,ProviderID,Entry Exit GroupID,DateCreated,DateUpdated,ProgramEntryDate,ProgramExitDate,YearOfBirth,Relationship to HoH,Ethnicity,PrimaryRace,Veteran?,PreviousLivingSituation,LengthOfStayInPreviousLivingSituation,ZipCodeOfLastPermanentAddress,DestinationAtExit
E0,C1,U1,Shelter A(1),,5/1/2012,5/1/2012,5/1/2012,6/1/2012,1980,Self,Non-Hispanic/Latino (HUD),white,No (HUD),Jail,Less than one week,60601,Jail
E1,C1,U1,Shelter A(1),G1,1/5/2013,1/6/2013,1/5/2013,2/4/2013,1980,Self,Non-Hispanic/Latino (HUD),white,Refused (HUD),Emergency Shelter,More than one year,60601,Rental room/house/apartment
E2,C2,U2,Shelter A(1),G1,1/5/2013,1/6/2013,1/5/2013,2/4/2013,2010,,Hispanic/Latino (HUD),black/african american,No (HUD),,,99999,Emergency shelter
E2,C2,U2,Shelter A(1),G1,1/5/2013,1/6/2013,1/5/2013,2/4/2013,2010,Son,Hispanic/Latino (HUD),black/african american,No (HUD),,,99999,Emergency shelter
E3,C1,U1,PSH House(3),,3/1/2013,3/1/2013,3/1/2013,1/1/1980,1980,Self,Non-Hispanic/Latino (HUD),white,Yes (HUD),,,60602,
E4,C1,U1,Shelter A(1),,5/1/2013,5/1/2013,5/1/2013,5/10/2013,1980,Self,Non-Hispanic/Latino (HUD),white,Yes (HUD),,,,Other
`

const providersCSV = `Provider,ProgramTypeCode,AltProgramType
Shelter A(1),Emergency Shelter (HUD),
"Thresholds, Inc. Mobile Assessment Outreach(506)",Services Only (HUD),
PSH House(3),Permanent supportive housing (HUD),
,,
`

func fixtureRaw() memRaw {
	return memRaw{
		raw: map[string]string{
			"Master":    masterCSV,
			"Providers": providersCSV,
			"EntryDisabilities": "EntryID,DisabilityType\n" +
				"E1,Dual Diagnosis\nE1,Dual Diagnosis\n",
			"ReviewDisabilities": "EntryID,DisabilityType\nE2,Vision Impaired\n",
			"EntryIncome": "EntryID,SourceOfIncome,Last30DayIncome,StartDate,EndDate\n" +
				"E1,Employment amount,$400,1/1/2013,\n" +
				"E1,Employment amount,600,1/3/2013,\n" +
				"E1,SSI/P3,200,1/1/2013,\n" +
				"E1,Food Stamps (HUD),100,1/1/2013,\n",
			"ExitIncome": "EntryID,SourceOfIncome,Last30DayIncome,StartDate,EndDate\n" +
				"E1,Employment amount,\"1,000\",2/1/2013,\n",
			"EntryNCB": "EntryID,SourceOfNonCashBenefit,StartDate,EndDate\n" +
				"E2,MEDICAID (HUD),1/5/2013,\nE2,SSDI (HUD),1/5/2013,\n",
			"ExitNCB": "EntryID,SourceOfNonCashBenefit,StartDate,EndDate\n" +
				"E2,MEDICAID (HUD),2/4/2013,\n",
			"ReviewDetail": "EntryID,ReviewDate,HousingStatus\n" +
				"E1,1/20/2013,Literally Homeless (HUD)\n" +
				"E2,1/20/2013,Refused (HUD)\n" +
				",,\n",
			"Services": "ClientID,ServiceCode,ServiceStartDate,ServiceEndDate,DateCreated,DateUpdated,ServiceDescription])\n" +
				"C1,BH-1800,1/10/2013,1/11/2013,1/10/2013,1/10/2013,Food pantry\n" +
				"C1,LH,3/5/2013,3/5/2013,3/5/2013,3/5/2013,Case management\n" +
				"C2,N,2/4/2013,2/4/2013,2/4/2013,2/4/2013,Legal aid\n",
			"EntryDetails":  "EntryID,Note\nE1,first\n,\n,\n",
			"ExitStuff":     "EntryID,ExitReason\nE1,Completed program\n",
			"ReviewIncome":  "EntryID,SourceOfIncome\nE1,SSI (HUD)\n",
			"ReviewNCB":     "EntryID,SourceOfNonCashBenefit\nE1,MEDICAID (HUD)\n",
		},
		aux: map[string]string{
			Zips: "zip,city\n60601,Chicago\n60602,Chicago\n",
		},
	}
}

func mustCSV(t *testing.T, text string) *table.Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(text), isRawNull)
	require.NoError(t, err)
	return tbl
}

// rowOf returns the first row whose EntryID equals id
func rowOf(t *testing.T, tbl *table.Table, id string) table.Row {
	t.Helper()
	for i, v := range tbl.Column("EntryID") {
		if v.Equal(table.String(id)) {
			return tbl.Row(i)
		}
	}
	require.Failf(t, "entry not found", "EntryID %s", id)
	return table.Row{}
}
