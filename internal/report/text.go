package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle     = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	severityStyles = map[Severity]lipgloss.Style{
		SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
	statusStyles = map[Status]lipgloss.Style{
		StatusCompliant:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusPartial:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusNonCompliant: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		StatusMissing:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func severityLabel(s Severity) string {
	label := strings.ToUpper(string(s))
	if style, ok := severityStyles[s]; ok {
		return style.Render(label)
	}
	return label
}

func statusLabel(s Status) string {
	label := strings.ReplaceAll(strings.ToUpper(string(s)), "_", " ")
	if style, ok := statusStyles[s]; ok {
		return style.Render(label)
	}
	return label
}

// RenderText writes a terminal rendering of r to w.
func RenderText(w io.Writer, r *Report) error {
	var b strings.Builder

	title := "Bid Audit"
	if r.VendorName != "" {
		title += ": " + r.VendorName
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	counts := r.StatusCounts()
	overview := []string{
		fmt.Sprintf("Compliance:   %.1f%%", r.CompliancePercentage()),
		fmt.Sprintf("Overall risk: %s", severityLabel(r.OverallRisk)),
		fmt.Sprintf("Findings:     %d (%d compliant, %d partial, %d non-compliant, %d missing)",
			len(r.Findings), counts[StatusCompliant], counts[StatusPartial],
			counts[StatusNonCompliant], counts[StatusMissing]),
	}
	b.WriteString(boxStyle.Render(strings.Join(overview, "\n")))
	b.WriteString("\n")

	if r.Summary != "" {
		b.WriteString("\n" + sectionStyle.Render("Summary") + "\n")
		b.WriteString(r.Summary + "\n")
	}

	if len(r.Findings) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Findings") + "\n")
		for i, f := range r.Findings {
			fmt.Fprintf(&b, "%2d. [%s] %s (%.0f%%, risk %s)\n",
				i+1, statusLabel(f.Status), f.Requirement,
				NormalizeScore(f.ComplianceScore)*100, severityLabel(f.Risk))
			if f.BidResponse != "" {
				b.WriteString("    Bid: " + f.BidResponse + "\n")
			}
			if f.Notes != "" {
				b.WriteString("    " + mutedStyle.Render(f.Notes) + "\n")
			}
		}
	}

	if len(r.Risks) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Risks") + "\n")
		for _, risk := range r.Risks {
			fmt.Fprintf(&b, "- [%s] %s\n", severityLabel(risk.Severity), risk.Title)
			if risk.Description != "" {
				b.WriteString("    " + risk.Description + "\n")
			}
			if risk.Mitigation != "" {
				b.WriteString("    Mitigation: " + risk.Mitigation + "\n")
			}
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Recommendations") + "\n")
		for _, rec := range r.Recommendations {
			b.WriteString("- " + rec + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
