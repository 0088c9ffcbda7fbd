package main

import (
	"github.com/spf13/cobra"

	"ai_detector/internal/render"
	"ai_detector/internal/workflow"
)

var detectCmd = &cobra.Command{
	Use:   "detect [text...|-]",
	Short: "Analyze text for AI-generated content",
	Long: `Send text to the detection service and print the overall verdict and the
per-sentence breakdown. Text comes from the arguments, --file, or stdin.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringP("file", "f", "", "read the text from a file")
	addOutputFlags(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.workflows(cmd.Context()).Detect
	if err := c.SetInput(text); err != nil {
		return err
	}
	st, _ := c.Submit(cmd.Context())
	return a.emit(cmd, render.Analysis(st), string(workflow.KindDetect), st.Ticket, text)
}
