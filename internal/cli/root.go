// Package cli implements the catalogctl command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/simp-lee/minimarket/internal/client"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	envPath    string
	apiURL     string
}

// defaultAPI returns the API root, checking MINIMARKET_API first.
func defaultAPI() string {
	if s := os.Getenv("MINIMARKET_API"); s != "" {
		return s
	}
	return client.DefaultBaseURL
}

// NewRootCmd creates the root command of catalogctl.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Minimarket catalog tool",
		Long:          "catalogctl seeds and queries the minimarket product catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "configs/config.yaml", "path to configuration file")
	root.PersistentFlags().StringVar(&opts.envPath, "env", ".env", "path to an optional dotenv file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", defaultAPI(), "catalog API root (or MINIMARKET_API env)")

	root.AddCommand(
		newSeedCmd(opts),
		newCheapestCmd(opts),
		newBrowseCmd(opts),
		newShowCmd(opts),
	)

	return root
}
