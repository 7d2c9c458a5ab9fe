package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lovesim/internal/llm"
	"github.com/abhisek/lovesim/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the recorded LLM calls (requires LOVESIM_EVENT_LOG)",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		sessionID, _ := cmd.Flags().GetString("session")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose, ConversationID: sessionID}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-14s  %-8s  %-26s  %6s  %6s  %7s  %s\n",
			"ID", "Time", "Purpose", "Session", "Model", "In", "Out", "Ms", "")
		rule(out, 104)
		for _, e := range events {
			status := "ok"
			if !e.Success {
				status = "FAIL " + truncate(e.ErrorMessage, 40)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-14s  %-8s  %-26s  %6d  %6d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				truncate(e.ConversationID, 8),
				truncate(e.Model, 26),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				status,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		}

		field := func(name, value string) { fmt.Fprintf(out, "%-10s %s\n", name+":", value) }
		field("ID", fmt.Sprint(e.ID))
		field("Time", e.Timestamp.Local().Format(timeLayout))
		field("Purpose", e.Purpose)
		field("Model", e.Model)
		if e.ConversationID != "" {
			field("Session", e.ConversationID)
		}
		field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
		field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
		if e.Success {
			field("Result", "ok")
		} else {
			field("Result", "failed: "+e.ErrorMessage)
		}

		section(out, "PROMPT", e.RequestBody)
		section(out, "REPLY", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize LLM calls per purpose and estimated spend per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %6s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Failed", "Input", "Output", "Avg Ms")
		rule(out, 66)
		var calls, failed, in, outTok int
		for _, st := range stats {
			fmt.Fprintf(out, "%-16s  %6d  %6d  %10d  %10d  %8d\n",
				st.Purpose, st.Calls, st.Failures, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
			calls += st.Calls
			failed += st.Failures
			in += st.InputTokens
			outTok += st.OutputTokens
		}
		rule(out, 66)
		fmt.Fprintf(out, "%-16s  %6d  %6d  %10d  %10d\n", "TOTAL", calls, failed, in, outTok)

		models, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(models) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-32s  %6s  %10s\n", "Model", "Calls", "Est. USD")
		rule(out, 52)
		var total float64
		var unpriced []string
		for _, mu := range models {
			price := llm.LookupCost(mu.Model)
			if price == nil {
				unpriced = append(unpriced, mu.Model)
				fmt.Fprintf(out, "%-32s  %6d  %10s\n", truncate(mu.Model, 32), mu.Calls, "?")
				continue
			}
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			fmt.Fprintf(out, "%-32s  %6d  %10s\n", truncate(mu.Model, 32), mu.Calls, formatCost(c))
		}
		rule(out, 52)
		fmt.Fprintf(out, "%-32s  %6s  %10s\n", "TOTAL", "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func rule(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("─", width))
}

func section(w io.Writer, title, body string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "── %s ", title)
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, body)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (scenario-gen, next-situation, choice-eval, result)")
	llmListCmd.Flags().StringP("session", "s", "", "Filter by session id (the sid cookie)")
	llmListCmd.Flags().Duration("since", 0, "Only show calls newer than this (e.g. 1h)")
	llmViewCmd.Flags().Bool("json", false, "Print the raw event as JSON")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
