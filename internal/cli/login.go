package cli

import (
	"errors"
	"fmt"

	"github.com/joaopmafra/sapie/internal/client"
	"github.com/spf13/cobra"
)

var flagToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with your Sapie server",
	Long: `Store an ID token for later commands:

  sapie login --token eyJhbGciOi...

Tokens come from your identity provider (or "mint-token" in development).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagToken == "" {
			return fmt.Errorf("an ID token is required: sapie login --token X")
		}

		// Validate the token before persisting it.
		probe := client.NewClient(cfg.ServerURL, flagToken)
		profile, err := probe.Me()
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Status == 401 {
				return fmt.Errorf("invalid token: server returned 401")
			}
			return fmt.Errorf("validating token: %w", err)
		}

		cfg.Token = flagToken
		if err := SaveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Printf("Logged in as %s (%s)\n", profile.DisplayName, profile.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ClearConfig(); err != nil {
			return fmt.Errorf("clearing config: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagToken, "token", "", "ID token for authentication")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
