package audit

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/domain"
	"bidcheck/internal/report"
)

// Input names the two documents to compare.
type Input struct {
	RFQPath string
	BidPath string
}

// Result is a completed audit.
type Result struct {
	Report      *report.Report
	Entitlement *domain.EntitlementStatus
}

// Auditor runs the audit sequence against the edge service.
type Auditor struct {
	client *Client
}

// NewAuditor creates a new Auditor.
func NewAuditor(client *Client) *Auditor {
	return &Auditor{client: client}
}

// Run extracts both documents, checks the caller's entitlement, requests the
// analysis and parses it. Usage is recorded only once a report has been
// parsed; any earlier failure leaves the counter untouched.
//
// If recording usage fails after a successful parse, Run returns the result
// together with the error.
func (a *Auditor) Run(ctx context.Context, in Input) (*Result, error) {
	rfq, err := ExtractText(in.RFQPath)
	if err != nil {
		return nil, fmt.Errorf("audit.Run: rfq: %w", err)
	}
	bid, err := ExtractText(in.BidPath)
	if err != nil {
		return nil, fmt.Errorf("audit.Run: bid: %w", err)
	}

	status, err := a.client.Entitlement(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit.Run: %w", err)
	}
	if !status.Allowed {
		return nil, fmt.Errorf("audit.Run: %w", domain.ErrEntitlementExhausted)
	}

	log.WithFields(log.Fields{
		"rfq_chars": len(rfq),
		"bid_chars": len(bid),
	}).Debug("requesting bid analysis")

	body, err := a.client.Generate(ctx, BuildRequest(rfq, bid))
	if err != nil {
		return nil, fmt.Errorf("audit.Run: %w", err)
	}

	rep, err := ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("audit.Run: %w", err)
	}

	result := &Result{Report: rep}
	result.Entitlement, err = a.client.RecordUsage(ctx)
	if err != nil {
		return result, fmt.Errorf("audit.Run: %w", err)
	}
	return result, nil
}
