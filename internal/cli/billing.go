package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bidcheck/internal/audit"
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Get a checkout link for an unlimited subscription",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printSessionURL(cmd, (*audit.Client).CheckoutURL, "Complete checkout at:")
	},
}

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Get a link to manage your subscription and invoices",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printSessionURL(cmd, (*audit.Client).PortalURL, "Manage billing at:")
	},
}

func init() {
	RootCmd.AddCommand(subscribeCmd, billingCmd)
}

func printSessionURL(cmd *cobra.Command, create func(*audit.Client, context.Context, string) (string, error), label string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	// The edge service reports the token subject as the user id.
	status, err := client.Entitlement(cmd.Context())
	if err != nil {
		return MapError(err)
	}
	url, err := create(client, cmd.Context(), status.UserID)
	if err != nil {
		return MapError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), label)
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
