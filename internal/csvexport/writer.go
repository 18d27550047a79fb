package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bidcheck/internal/report"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting audit findings as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the findings header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(report.FindingColumns)
}

// WriteFindings writes one row per finding. Scores are written on a 0-100 scale.
func (w *Writer) WriteFindings(findings []report.Finding) error {
	for i := range findings {
		if err := w.csv.Write(findingToRow(&findings[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteReport writes a BOM, the header and every finding of r, then flushes.
func WriteReport(out io.Writer, r *report.Report) error {
	if _, err := out.Write(BOM); err != nil {
		return fmt.Errorf("csvexport.WriteReport: %w", err)
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("csvexport.WriteReport: %w", err)
	}
	if err := w.WriteFindings(r.Findings); err != nil {
		return fmt.Errorf("csvexport.WriteReport: %w", err)
	}
	w.Flush()
	return w.Error()
}

func findingToRow(f *report.Finding) []string {
	return []string{
		f.Requirement,
		f.BidResponse,
		string(f.Status),
		formatPercent(report.NormalizeScore(f.ComplianceScore) * 100),
		string(f.Risk),
		f.Notes,
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a vendor name for use in a file name.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a default export file name for a vendor's audit.
// Format: bid_audit_{sanitized_vendor}_{YYYY-MM-DD}.{ext}
func BuildFilename(vendorName, ext string, now time.Time) string {
	name := "bid_audit"
	if s := SanitizeFilename(vendorName); s != "" {
		name += "_" + s
	}
	return fmt.Sprintf("%s_%s.%s", name, now.Format("2006-01-02"), ext)
}
