package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lovesim/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lovesim",
	Short: "AI dating-scenario simulator",
	Long:  "lovesim serves an LLM-driven dating simulation: it writes situations, grades every choice and sums up the player's style.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LOVESIM_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LOVESIM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
