package cli

import (
	"fmt"

	"github.com/joaopmafra/sapie/internal/tree"
	"github.com/spf13/cobra"
)

var flagDepth int

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the content hierarchy",
	Long: `Print the hierarchy as a tree, expanding directories lazily.
Each directory is fetched at most once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		t := tree.New(apiClient)
		if err := t.Load(); err != nil {
			return err
		}

		root, _ := t.Node(t.RootID())
		fmt.Println(root.Content.Name)
		return printSubtree(t, t.RootID(), "", 1)
	},
}

func printSubtree(t *tree.Tree, id, prefix string, depth int) error {
	if flagDepth > 0 && depth > flagDepth {
		return nil
	}

	childIDs, err := t.Expand(id)
	if err != nil {
		return err
	}

	for i, childID := range childIDs {
		child, ok := t.Node(childID)
		if !ok {
			continue
		}

		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(childIDs)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}

		name := child.Content.Name
		if child.Content.IsDirectory() {
			name += "/"
		}
		fmt.Println(prefix + connector + name)

		if child.Content.IsDirectory() {
			if err := printSubtree(t, childID, childPrefix, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	treeCmd.Flags().IntVar(&flagDepth, "depth", 0, "Maximum depth to expand (0 = unlimited)")
	rootCmd.AddCommand(treeCmd)
}
