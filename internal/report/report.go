// Package report holds the structured audit result returned by the AI provider
// and the renderers that present it.
package report

import "math"

// Status is the compliance verdict for one RFQ requirement.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusPartial      Status = "partial"
	StatusNonCompliant Status = "non_compliant"
	StatusMissing      Status = "missing"
)

// Statuses lists the accepted finding statuses in display order.
var Statuses = []Status{StatusCompliant, StatusPartial, StatusNonCompliant, StatusMissing}

// Severity grades a risk or a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists the accepted severities from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Finding compares one RFQ requirement against the vendor's bid.
type Finding struct {
	Requirement     string   `json:"requirement"`
	BidResponse     string   `json:"bidResponse"`
	Status          Status   `json:"status"`
	ComplianceScore float64  `json:"complianceScore"`
	Risk            Severity `json:"risk"`
	Notes           string   `json:"notes,omitempty"`
}

// Risk is a commercial or delivery risk identified in the bid.
type Risk struct {
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Mitigation  string   `json:"mitigation,omitempty"`
}

// Report is the schema-shaped audit result.
type Report struct {
	VendorName      string    `json:"vendorName"`
	Summary         string    `json:"summary"`
	OverallRisk     Severity  `json:"overallRisk"`
	Findings        []Finding `json:"findings"`
	Risks           []Risk    `json:"risks"`
	Recommendations []string  `json:"recommendations"`
}

// NormalizeScore maps a score reported on a 0-100 scale onto 0-1. Scores
// already in 0-1 are returned unchanged.
func NormalizeScore(score float64) float64 {
	if score > 1 {
		return score / 100
	}
	return score
}

// CompliancePercentage averages the normalized finding scores and expresses
// the mean as a percentage rounded to one decimal. No findings yields 0.
func CompliancePercentage(findings []Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var sum float64
	for _, f := range findings {
		sum += NormalizeScore(f.ComplianceScore)
	}
	pct := sum / float64(len(findings)) * 100
	return math.Round(pct*10) / 10
}

// StatusCounts tallies findings by status.
func (r *Report) StatusCounts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, f := range r.Findings {
		counts[f.Status]++
	}
	return counts
}

// CompliancePercentage is the report-level compliance figure.
func (r *Report) CompliancePercentage() float64 {
	return CompliancePercentage(r.Findings)
}
