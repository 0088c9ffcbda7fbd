package main

import (
	"io"

	"github.com/spf13/cobra"

	"ai_detector/internal/lifecycle"
	"ai_detector/internal/render"
	"ai_detector/internal/workflow"
)

var humanizeCmd = &cobra.Command{
	Use:   "humanize [text...|-]",
	Short: "Rewrite text so it reads as human-written",
	Long: `Send text to the humanize service and print the original next to the
rewritten version with change statistics. --output-only prints just the
rewritten text, for piping into other tools.`,
	RunE: runHumanize,
}

func init() {
	humanizeCmd.Flags().StringP("file", "f", "", "read the text from a file")
	humanizeCmd.Flags().Bool("output-only", false, "print only the humanized text")
	addOutputFlags(humanizeCmd)
}

func runHumanize(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.workflows(cmd.Context()).Humanize
	if err := c.SetInput(text); err != nil {
		return err
	}
	st, _ := c.Submit(cmd.Context())

	if only, _ := cmd.Flags().GetBool("output-only"); only && st.Phase == lifecycle.Succeeded {
		_, err := io.WriteString(cmd.OutOrStdout(), st.Result.HumanizedText+"\n")
		return err
	}
	return a.emit(cmd, render.Humanize(st, text), string(workflow.KindHumanize), st.Ticket, text)
}
