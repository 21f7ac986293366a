package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagParent string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a note",
	Long: `Create a note under a directory (the root by default).

  sapie new "Algebra Notes"
  sapie new "Physics Notes" --parent 550e8400-...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		parentID := flagParent
		if parentID == "" {
			root, err := apiClient.Root()
			if err != nil {
				return fmt.Errorf("fetching root directory: %w", err)
			}
			parentID = root.ID
		}

		content, err := apiClient.CreateNote(args[0], parentID)
		if err != nil {
			return fmt.Errorf("creating note: %w", err)
		}

		if flagJSON {
			printJSON(content)
			return nil
		}

		printContentDetail(*content)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&flagParent, "parent", "", "Parent directory id (default: root)")
	rootCmd.AddCommand(newCmd)
}
