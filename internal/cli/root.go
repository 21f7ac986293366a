package cli

import (
	"fmt"
	"os"

	"github.com/joaopmafra/sapie/internal/client"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *Config
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "sapie",
	Short: "Sapie CLI lets you browse your content workspace from the terminal",
	Long: `Sapie CLI lets you explore and edit your personal content
hierarchy (directories and notes) without leaving the terminal.

Get started:
  sapie login --token X       Authenticate with an ID token
  sapie ls                    List your root directory
  sapie tree                  Print the whole hierarchy
  sapie new "Algebra Notes"   Create a note under the root`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient = client.NewClient(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:3000)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func requireAuth() error {
	if cfg == nil || cfg.Token == "" {
		return fmt.Errorf("not authenticated, run \"sapie login\" first")
	}
	return nil
}
