package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joaopmafra/sapie/internal/client"
)

// printJSON prints v as indented JSON to stdout.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// printContentTable prints nodes as a human-readable table.
func printContentTable(nodes []client.Content) {
	if len(nodes) == 0 {
		fmt.Println("Empty directory.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tID\tMODIFIED")

	for _, n := range nodes {
		name := n.Name
		if n.IsDirectory() {
			name += "/"
		}

		size := "-"
		if n.Size != nil {
			size = formatSize(*n.Size)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", name, n.Type, size, n.ID, n.UpdatedAt.Format(time.RFC3339))
	}
	w.Flush()
}

// printContentDetail prints a single node's details.
func printContentDetail(n client.Content) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", n.Name)
	fmt.Fprintf(w, "ID:\t%s\n", n.ID)
	fmt.Fprintf(w, "Type:\t%s\n", n.Type)
	if n.ParentID != nil {
		fmt.Fprintf(w, "Parent ID:\t%s\n", *n.ParentID)
	}
	fmt.Fprintf(w, "Owner:\t%s\n", n.OwnerID)
	if n.Size != nil {
		fmt.Fprintf(w, "Size:\t%s\n", formatSize(*n.Size))
	}
	if n.ContentURL != nil {
		fmt.Fprintf(w, "Payload:\t%s\n", *n.ContentURL)
	}
	fmt.Fprintf(w, "Created:\t%s\n", n.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Modified:\t%s\n", n.UpdatedAt.Format(time.RFC3339))
	w.Flush()
}

func printUserInfo(u client.UserProfile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "UID:\t%s\n", u.UID)
	fmt.Fprintf(w, "Email:\t%s\n", u.Email)
	if u.DisplayName != "" {
		fmt.Fprintf(w, "Name:\t%s\n", u.DisplayName)
	}
	fmt.Fprintf(w, "Verified:\t%v\n", u.EmailVerified)
	for _, p := range u.ProviderData {
		fmt.Fprintf(w, "Provider:\t%s\n", p.ProviderID)
	}
	w.Flush()
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
