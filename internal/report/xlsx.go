package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetFindings = "Findings"
	sheetRisks    = "Risks"
)

// WriteXLSX writes r as a workbook with summary, findings and risks sheets.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if _, err := f.NewSheet(sheetFindings); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if _, err := f.NewSheet(sheetRisks); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDD9F7"}},
	})
	if err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	counts := r.StatusCounts()
	summary := [][]interface{}{
		{"Vendor", r.VendorName},
		{"Compliance %", r.CompliancePercentage()},
		{"Overall risk", string(r.OverallRisk)},
		{"Findings", len(r.Findings)},
		{"Compliant", counts[StatusCompliant]},
		{"Partial", counts[StatusPartial]},
		{"Non-compliant", counts[StatusNonCompliant]},
		{"Missing", counts[StatusMissing]},
		{"Summary", r.Summary},
	}
	for _, rec := range r.Recommendations {
		summary = append(summary, []interface{}{"Recommendation", rec})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetColStyle(sheetSummary, "A", header); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	findings := [][]interface{}{findingHeaderRow()}
	for _, fd := range r.Findings {
		findings = append(findings, []interface{}{
			fd.Requirement, fd.BidResponse, string(fd.Status),
			NormalizeScore(fd.ComplianceScore) * 100, string(fd.Risk), fd.Notes,
		})
	}
	if err := writeRows(f, sheetFindings, findings); err != nil {
		return err
	}

	risks := [][]interface{}{{"Title", "Severity", "Description", "Mitigation"}}
	for _, rk := range r.Risks {
		risks = append(risks, []interface{}{rk.Title, string(rk.Severity), rk.Description, rk.Mitigation})
	}
	if err := writeRows(f, sheetRisks, risks); err != nil {
		return err
	}

	for _, sheet := range []string{sheetFindings, sheetRisks} {
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return fmt.Errorf("report.WriteXLSX: %w", err)
		}
	}
	_ = f.SetColWidth(sheetSummary, "B", "B", 80)
	_ = f.SetColWidth(sheetFindings, "A", "B", 50)
	_ = f.SetColWidth(sheetFindings, "F", "F", 50)
	_ = f.SetColWidth(sheetRisks, "C", "D", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	return nil
}

// FindingColumns is the column order shared by the tabular exports.
var FindingColumns = []string{"Requirement", "Bid Response", "Status", "Compliance %", "Risk", "Notes"}

func findingHeaderRow() []interface{} {
	row := make([]interface{}, len(FindingColumns))
	for i, c := range FindingColumns {
		row[i] = c
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("report.writeRows: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("report.writeRows %s: %w", sheet, err)
		}
	}
	return nil
}
