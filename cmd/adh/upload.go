package main

import (
	"github.com/spf13/cobra"

	"ai_detector/internal/render"
	"ai_detector/internal/workflow"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Analyze a PDF, DOC, DOCX or TXT document",
	Long: `Upload a document (at most 10MB) to the detection service. The file type
comes from the extension, or from the content when the extension is unknown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().String("mime", "", "override the detected MIME type")
	addOutputFlags(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.workflows(cmd.Context()).Upload
	if len(args) == 1 {
		mime, _ := cmd.Flags().GetString("mime")
		if _, err := workflow.SelectFile(c, args[0], mime); err != nil {
			return a.emit(cmd, render.Analysis(c.State()), string(workflow.KindUpload), c.State().Ticket, args[0])
		}
	}
	st, _ := c.Submit(cmd.Context())
	return a.emit(cmd, render.Analysis(st), string(workflow.KindUpload), st.Ticket, c.Input().Name)
}
