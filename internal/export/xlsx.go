// Package export renders availability reports as spreadsheets.
package export

import (
	"fmt"

	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Reports"

// ReportHeaders are the column titles of the report workbook.
var ReportHeaders = []string{"User", "Email", "Unit", "Date", "Status", "Location", "Notes", "Submitted At"}

// ReportsXLSX writes one row per report under a bold header row.
func ReportsXLSX(reports []domain.ReportDetails) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for i, h := range ReportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ReportHeaders), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for r, rep := range reports {
		location := rep.LocationName
		if location == "" {
			location = rep.LocationText
		}
		row := []any{
			rep.UserName,
			rep.UserEmail,
			rep.UnitName,
			rep.Date.Format("2006-01-02"),
			string(rep.Status),
			location,
			rep.Notes,
			rep.SubmittedAt.UTC().Format("2006-01-02 15:04"),
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, start, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "H", 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
