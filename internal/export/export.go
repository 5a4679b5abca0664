package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"fitcentive-growth-report/internal/report"
)

// WriteJSON writes the reports as one indented JSON array.
func WriteJSON(reports []report.Report, path string) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteCSV writes one metric per row.
func WriteCSV(reports []report.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"report", "metric", "value", "display"}); err != nil {
		return err
	}
	for _, r := range reports {
		for _, m := range r.Metrics {
			record := []string{
				r.Name,
				m.Name,
				strconv.FormatFloat(m.Value, 'f', -1, 64),
				m.Display,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// ClaimsSheet is the workbook sheet listing every published figure check.
const ClaimsSheet = "claims"

// WriteXLSX writes a workbook with one metrics sheet per report and a
// claims sheet.
func WriteXLSX(reports []report.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, r := range reports {
		sheet := r.Name
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		rows := [][]any{{"Metric", "Value", "Display"}}
		for _, m := range r.Metrics {
			rows = append(rows, []any{m.Name, m.Value, m.Display})
		}
		if err := writeRows(f, sheet, rows, []float64{36, 14, 24}); err != nil {
			return err
		}
	}

	if first {
		if err := f.SetSheetName("Sheet1", ClaimsSheet); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(ClaimsSheet); err != nil {
		return err
	}
	rows := [][]any{{"Report", "Claim", "Stated", "Actual", "Tolerance", "Mismatch"}}
	for _, r := range reports {
		for _, c := range r.Claims {
			rows = append(rows, []any{r.Name, c.Label, c.Stated, c.Actual, c.Tolerance, c.Mismatch()})
		}
	}
	if err := writeRows(f, ClaimsSheet, rows, []float64{20, 44, 12, 12, 12, 10}); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]any, widths []float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
