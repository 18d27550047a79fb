// Package cli implements the bidcheck command-line client.
package cli

import (
	"github.com/spf13/cobra"

	"bidcheck/internal/audit"
	"bidcheck/internal/config"
	"bidcheck/internal/logger"
)

// Version is set at build time.
var Version = "dev"

// Global flag values
var (
	serverURL string
	token     string
	verbose   bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "bidcheck",
	Version: Version,
	Short:   "Audit a vendor bid against a request for quote",
	Long: `bidcheck compares a vendor's bid with the buyer's request for quote (RFQ)
and reports requirement-by-requirement compliance, risks and recommendations.

Settings come from BIDCHECK_CLIENT_* environment variables and may be
overridden with flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "edge service URL (overrides BIDCHECK_CLIENT_SERVER_URL)")
	RootCmd.PersistentFlags().StringVar(&token, "token", "", "identity token (overrides BIDCHECK_CLIENT_TOKEN)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig reads configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Client.ServerURL = serverURL
	}
	if token != "" {
		cfg.Client.Token = token
	}
	if verbose {
		cfg.Log.Level = "debug"
	} else {
		cfg.Log.Level = "warn"
	}
	logger.Setup(cfg.Log)
	return cfg, nil
}

func newClient() (*audit.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Client.Token == "" {
		return nil, NewCLIError("no identity token configured", "set BIDCHECK_CLIENT_TOKEN or pass --token", nil)
	}
	return audit.NewClient(cfg.Client), nil
}
