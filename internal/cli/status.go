package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your audit usage and subscription",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		status, err := client.Entitlement(cmd.Context())
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		plan := "free"
		if status.Subscribed {
			plan = "subscribed"
		}
		fmt.Fprintf(out, "Plan:       %s\n", plan)
		fmt.Fprintf(out, "Audits run: %d\n", status.AuditCount)
		if !status.Subscribed {
			fmt.Fprintf(out, "Remaining:  %d of %d free\n", status.Remaining, status.FreeLimit)
		}
		if !status.Allowed {
			fmt.Fprintln(out, "Free audits used up; run 'bidcheck subscribe' to continue.")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(statusCmd)
}
