package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bidcheck/internal/audit"
	"bidcheck/internal/csvexport"
	"bidcheck/internal/report"
)

// Flag variables for the audit command
var (
	rfqPath      string
	bidPath      string
	outputFormat string
	outputPath   string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Compare a bid against an RFQ",
	Long: `Extract both documents, request a compliance analysis and render the report.

One audit is counted against your free tier only when a report is produced.

Formats:
  text  terminal report (default)
  json  the raw report JSON
  csv   findings table
  xlsx  workbook with summary, findings and risks sheets

Examples:
  bidcheck audit --rfq rfq.pdf --bid bid.docx
  bidcheck audit --rfq rfq.pdf --bid bid.docx --format xlsx -o audit.xlsx`,
	RunE: runAuditCmd,
}

func init() {
	auditCmd.Flags().StringVar(&rfqPath, "rfq", "", "path to the request for quote ("+supportedTypes()+")")
	auditCmd.Flags().StringVar(&bidPath, "bid", "", "path to the vendor bid ("+supportedTypes()+")")
	auditCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json, csv or xlsx")
	auditCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file")
	_ = auditCmd.MarkFlagRequired("rfq")
	_ = auditCmd.MarkFlagRequired("bid")
	RootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, _ []string) error {
	switch outputFormat {
	case "text", "json", "csv", "xlsx":
	default:
		return NewCLIError(fmt.Sprintf("unknown format %q", outputFormat), "use text, json, csv or xlsx", nil)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	res, err := audit.NewAuditor(client).Run(cmd.Context(), audit.Input{RFQPath: rfqPath, BidPath: bidPath})
	if res == nil {
		return MapError(err)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: audit completed but usage was not recorded: %v\n", err)
	}

	if err := writeReport(cmd.OutOrStdout(), res.Report); err != nil {
		return err
	}
	if res.Entitlement != nil && !res.Entitlement.Subscribed {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d free audits remaining\n", res.Entitlement.Remaining, res.Entitlement.FreeLimit)
	}
	return nil
}

func writeReport(stdout io.Writer, r *report.Report) error {
	path := outputPath
	if path == "" && (outputFormat == "csv" || outputFormat == "xlsx") {
		path = csvexport.BuildFilename(r.VendorName, outputFormat, time.Now())
	}

	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var err error
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	case "csv":
		err = csvexport.WriteReport(out, r)
	case "xlsx":
		err = report.WriteXLSX(out, r)
	default:
		err = report.RenderText(out, r)
	}
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(stdout, "report written to %s\n", path)
	}
	return nil
}
