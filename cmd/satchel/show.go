// Show command for the satchel CLI.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// showEntry is the JSON shape of item metadata.
type showEntry struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	Encrypted       bool       `json:"encrypted"`
	ParentID        string     `json:"parent_id,omitempty"`
	EncryptionKeyID string     `json:"encryption_key_id,omitempty"`
	UpdatedTime     *time.Time `json:"updated_time,omitempty"`
}

var showCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Show the metadata of an item without reading its content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := openNotebook()
		if err != nil {
			return err
		}
		rec, err := nb.GetNote(args[0])
		if err != nil {
			return err
		}

		entry := showEntry{
			ID:              rec.ID(),
			Type:            rec.Type().String(),
			Encrypted:       rec.Encrypted(),
			ParentID:        rec.ParentID(),
			EncryptionKeyID: rec.EncryptionKeyID(),
			UpdatedTime:     rec.UpdatedTime(),
		}

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entry)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "id:        %s\n", entry.ID)
		fmt.Fprintf(out, "type:      %s\n", entry.Type)
		fmt.Fprintf(out, "encrypted: %v\n", entry.Encrypted)
		if entry.ParentID != "" {
			fmt.Fprintf(out, "parent:    %s\n", entry.ParentID)
		}
		if entry.EncryptionKeyID != "" {
			fmt.Fprintf(out, "key id:    %s\n", entry.EncryptionKeyID)
		}
		if entry.UpdatedTime != nil {
			fmt.Fprintf(out, "updated:   %s\n", entry.UpdatedTime.Format(time.RFC3339Nano))
		}
		return nil
	},
}
