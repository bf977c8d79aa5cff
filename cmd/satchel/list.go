// List command for the satchel CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// listEntry is the JSON shape of one listed item.
type listEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Encrypted bool   `json:"encrypted"`
	ParentID  string `json:"parent_id,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the indexed items of the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := openNotebook()
		if err != nil {
			return err
		}

		entries := make([]listEntry, 0)
		for _, id := range nb.NoteIDs() {
			rec, err := nb.GetNote(id)
			if err != nil {
				continue
			}
			entries = append(entries, listEntry{
				ID:        rec.ID(),
				Type:      rec.Type().String(),
				Encrypted: rec.Encrypted(),
				ParentID:  rec.ParentID(),
			})
		}

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tENCRYPTED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%v\n", e.ID, e.Type, e.Encrypted)
		}
		if err := w.Flush(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	},
}
