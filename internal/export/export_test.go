package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fitcentive-growth-report/internal/report"
)

func sampleReports() []report.Report {
	return []report.Report{
		{
			Name:  "payments",
			Title: "Payments",
			Metrics: []report.Metric{
				{Name: "total_paid_users", Value: 78, Display: "78"},
				{Name: "arpu", Value: 31.858974, Display: "$31.86"},
			},
			Claims: []report.Claim{{Label: "Top region users", Stated: 29, Actual: 29}},
		},
		{
			Name:    "paid-users",
			Title:   "Paid users",
			Metrics: []report.Metric{{Name: "sample_avg_age", Value: 34.55, Display: "34.6"}},
			Claims:  []report.Claim{{Label: "Average age", Stated: 34.1, Actual: 34.55, Tolerance: 0.05}},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, WriteJSON(sampleReports(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []report.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "payments", decoded[0].Name)
	assert.Equal(t, "$31.86", decoded[0].Metrics[1].Display)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, WriteCSV(sampleReports(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"report", "metric", "value", "display"}, records[0])
	assert.Equal(t, []string{"payments", "arpu", "31.858974", "$31.86"}, records[2])
	assert.Equal(t, []string{"paid-users", "sample_avg_age", "34.55", "34.6"}, records[3])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.xlsx")
	require.NoError(t, WriteXLSX(sampleReports(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"payments", "paid-users", ClaimsSheet}, f.GetSheetList())

	rows, err := f.GetRows("payments")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Metric", "Value", "Display"}, rows[0])
	assert.Equal(t, "total_paid_users", rows[1][0])
	assert.Equal(t, "78", rows[1][1])

	claims, err := f.GetRows(ClaimsSheet)
	require.NoError(t, err)
	require.Len(t, claims, 3)
	assert.Equal(t, "Average age", claims[2][1])
	assert.Equal(t, "TRUE", claims[2][5])
	assert.Equal(t, "FALSE", claims[1][5])
}

func TestWriteXLSXWithoutReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(nil, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{ClaimsSheet}, f.GetSheetList())
}
