package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		profile, err := apiClient.Me()
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}

		if flagJSON {
			printJSON(profile)
			return nil
		}

		printUserInfo(*profile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
