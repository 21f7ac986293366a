package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show a node's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		content, err := apiClient.GetContent(args[0])
		if err != nil {
			return fmt.Errorf("fetching content: %w", err)
		}

		if flagJSON {
			printJSON(content)
			return nil
		}

		printContentDetail(*content)
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <id>",
	Short: "Print a note's payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		data, err := apiClient.DownloadPayload(args[0])
		if err != nil {
			return fmt.Errorf("downloading payload: %w", err)
		}

		_, err = os.Stdout.Write(data)
		return err
	},
}

var putCmd = &cobra.Command{
	Use:   "put <id> <file>",
	Short: "Upload a file as a note's payload",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}

		contentType := "text/markdown"
		if filepath.Ext(args[1]) == ".txt" {
			contentType = "text/plain"
		}

		content, err := apiClient.UploadPayload(args[0], data, contentType)
		if err != nil {
			return fmt.Errorf("uploading payload: %w", err)
		}

		if flagJSON {
			printJSON(content)
			return nil
		}

		fmt.Printf("Uploaded %s (%d bytes) to %q\n", args[1], len(data), content.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(putCmd)
}
