package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"ai_detector/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent submissions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", db.DefaultListLimit, "maximum number of runs to list")
	historyCmd.Flags().String("workflow", "", "only list runs of this workflow (detect|upload|humanize)")
	historyCmd.Flags().Bool("json", false, "print the runs as JSON")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.store == nil {
		return errors.New("run history is disabled (history.enabled is false)")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	wf, _ := cmd.Flags().GetString("workflow")
	runs, err := a.store.List(cmd.Context(), db.ListOptions{Limit: limit, Workflow: strings.TrimSpace(wf)})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(historyJSON(runs))
	}
	if len(runs) == 0 {
		_, err := io.WriteString(out, "No runs recorded yet.\n")
		return err
	}
	return writeHistory(out, runs, a.color)
}

type historyRow struct {
	ID         string   `json:"id"`
	Workflow   string   `json:"workflow"`
	StartedAt  string   `json:"started_at"`
	DurationMs int64    `json:"duration_ms"`
	Status     string   `json:"status"`
	Score      *float64 `json:"score,omitempty"`
	Tier       string   `json:"tier,omitempty"`
	Label      string   `json:"label,omitempty"`
	Sentences  int      `json:"sentence_count"`
	Error      string   `json:"error,omitempty"`
	Input      string   `json:"input"`
}

func historyJSON(runs []db.Run) []historyRow {
	rows := make([]historyRow, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, historyRow{
			ID:         r.ID.String(),
			Workflow:   r.Workflow,
			StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
			DurationMs: r.Duration().Milliseconds(),
			Status:     r.Status,
			Score:      r.Score,
			Tier:       r.Tier,
			Label:      r.Label,
			Sentences:  r.SentenceCount,
			Error:      r.Error,
			Input:      r.Input,
		})
	}
	return rows
}

func writeHistory(w io.Writer, runs []db.Run, useColor bool) error {
	header := color.New(color.Bold)
	failed := color.New(color.FgRed)
	if useColor {
		header.EnableColor()
		failed.EnableColor()
	} else {
		header.DisableColor()
		failed.DisableColor()
	}

	cols := []int{16, 9, 10, 7, 7, 8}
	cell := func(s string, i int) string {
		return runewidth.FillRight(runewidth.Truncate(s, cols[i], "…"), cols[i])
	}

	var b strings.Builder
	b.WriteString(header.Sprint(
		cell("STARTED", 0) + " " + cell("WORKFLOW", 1) + " " + cell("STATUS", 2) + " " +
			cell("SCORE", 3) + " " + cell("TIER", 4) + " " + cell("TOOK", 5) + " INPUT"))
	b.WriteString("\n")
	for _, r := range runs {
		score := "-"
		if r.Score != nil {
			score = fmt.Sprintf("%.1f%%", *r.Score*100)
		}
		tier := r.Tier
		if tier == "" {
			tier = "-"
		}
		status := cell(r.Status, 2)
		detail := r.Input
		if r.Status == db.StatusFailed {
			status = failed.Sprint(status)
			detail = r.Error
		}
		fmt.Fprintf(&b, "%s %s %s %s %s %s %s\n",
			cell(humanize.Time(r.StartedAt), 0),
			cell(r.Workflow, 1),
			status,
			cell(score, 3),
			cell(tier, 4),
			cell(r.Duration().Round(time.Millisecond).String(), 5),
			runewidth.Truncate(detail, 60, "…"),
		)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
