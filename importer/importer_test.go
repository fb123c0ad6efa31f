package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/docal56/sharewillow-onboarding/importer"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const jobExport = `Job ID,Technician,Job Type,Job Total,Billable Hours,Total Hours,Google Rating,Overtime Cost
1001,Ana,Install,"$1,200.00",6,8,5,100
1002,Ana,Repair,$400,3,4,4.5,0
1003,Ben,Callback - no cool,$0,1,2,,50
1004,Ben,Maintenance,$300,2,3,4,
1005,Cam,Warranty redo,$200,2,3,9,

`

func assertKnown(t *testing.T, expect string, v decimal.NullDecimal) {
	t.Helper()
	require.True(t, v.Valid, "expected a known value")
	assert.True(t, v.Decimal.Equal(decimal.RequireFromString(expect)), "expected %s, got %s", expect, v.Decimal)
}

func TestImport_CSV(t *testing.T) {
	// GIVEN: Five jobs, one zero-value callback and one out-of-range rating
	// THEN:
	//   avg ticket      (1200 + 400 + 300 + 200) / 4 = 525
	//   billable        14 / 20 = 70%
	//   callbacks       2 of 5 = 40%
	//   google rating   (5 + 4.5 + 4) / 3 = 4.5
	//   overtime        (100 + 0 + 50) / 3 = 50
	//   top performer   Ana at 800

	summary, err := importer.Import(strings.NewReader(jobExport), "jobs.csv")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalJobs)
	assertKnown(t, "525", summary.AvgTicket)
	assertKnown(t, "2100", summary.TotalRevenue)
	assertKnown(t, "70", summary.BillableEfficiency)
	assertKnown(t, "40", summary.CallbackRate)
	assertKnown(t, "4.5", summary.GoogleRating)
	assertKnown(t, "50", summary.MonthlyOvertimeSpend)
	assertKnown(t, "800", summary.TopPerformer(plan.KPIAverageJobValue))
}

func TestImport_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Invoice Total", "Service Type", "Tech"},
		{500, "Repair", "Dee"},
		{250, "Recall", "Eli"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	summary, err := importer.Import(&buf, "Jobs.XLSX")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalJobs)
	assertKnown(t, "375", summary.AvgTicket)
	assertKnown(t, "50", summary.CallbackRate)
	assertKnown(t, "500", summary.TopPerformer(plan.KPIAverageJobValue))
	assert.False(t, summary.BillableEfficiency.Valid)
	assert.False(t, summary.GoogleRating.Valid)
}

func TestImport_MissingColumnsStayUnknown(t *testing.T) {
	summary, err := importer.Import(strings.NewReader("Customer,City\nSmith,Austin\n"), "jobs.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalJobs)
	assert.False(t, summary.AvgTicket.Valid)
	assert.False(t, summary.CallbackRate.Valid)
	assert.False(t, summary.MonthlyOvertimeSpend.Valid)
	assert.Nil(t, summary.TopPerformers)
}

func TestImport_EmptyExport(t *testing.T) {
	_, err := importer.Import(strings.NewReader(""), "jobs.csv")
	require.Error(t, err)

	summary, err := importer.Import(strings.NewReader("Job Total\n"), "jobs.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalJobs)
}

func TestFindColumn(t *testing.T) {
	header := []string{"Job #", "Total Hours", "Job Total", ""}

	assert.Equal(t, 2, importer.FindColumn(header, []string{"jobtotal", "total"}))
	assert.Equal(t, 1, importer.FindColumn(header, []string{"hours"}))
	assert.Equal(t, -1, importer.FindColumn(header, []string{"rating"}))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		expect string
		ok     bool
	}{
		{"$1,250.50", "1250.5", true},
		{"42%", "42", true},
		{"(300)", "-300", true},
		{" 7 ", "7", true},
		{"", "", false},
		{"n/a", "", false},
	}

	for _, tt := range tests {
		got, ok := importer.ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expect)), "%q → %s", tt.in, got)
		}
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, importer.FormatXLSX, importer.FormatOf("export.xlsx"))
	assert.Equal(t, importer.FormatCSV, importer.FormatOf("export.csv"))
	assert.Equal(t, importer.FormatCSV, importer.FormatOf("export"))
}
