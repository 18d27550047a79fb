package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bidcheck/internal/auth"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an identity token for local development",
	Long: `Mint an HS256 identity token signed with BIDCHECK_AUTH_SECRET.

Production tokens come from the identity service; this command is meant for
running the edge service locally.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		signed, err := auth.NewJWTVerifier(cfg.Auth).Issue(tokenUserID, tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id to place in the subject claim")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	RootCmd.AddCommand(tokenCmd)
}
