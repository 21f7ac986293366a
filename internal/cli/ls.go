package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [directory-id]",
	Short: "List a directory's children",
	Long: `List the children of a directory.

  sapie ls                  List the root directory
  sapie ls 550e8400-...     List a directory by id`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		parentID := ""
		if len(args) > 0 {
			parentID = args[0]
		}
		if parentID == "" {
			root, err := apiClient.Root()
			if err != nil {
				return fmt.Errorf("fetching root directory: %w", err)
			}
			parentID = root.ID
		}

		children, err := apiClient.Children(parentID)
		if err != nil {
			return fmt.Errorf("listing children: %w", err)
		}

		if flagJSON {
			printJSON(children)
			return nil
		}

		printContentTable(children)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
