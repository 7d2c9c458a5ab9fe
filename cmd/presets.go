package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lovesim/internal/scenario"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [id]",
	Short: "List the built-in persona presets, or print one as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			p, ok := scenario.PresetByID(args[0])
			if !ok {
				return fmt.Errorf("preset %q not found", args[0])
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		fmt.Fprintf(out, "%-14s  %-2s  %s\n", "ID", "", "Title")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, p := range scenario.Presets() {
			fmt.Fprintf(out, "%-14s  %s  %s\n", p.ID, p.Emoji, p.Title)
			fmt.Fprintf(out, "%-14s      %s\n", "", p.Description)
		}
		return nil
	},
}
