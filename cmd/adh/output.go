package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ai_detector/internal/analysis"
	"ai_detector/internal/logger"
	"ai_detector/internal/render"
	"ai_detector/internal/workspace"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "print the result as JSON")
	cmd.Flags().Bool("save", false, "save the result as a JSON report in the workspace")
	cmd.Flags().String("report", "", "write the JSON report to this path (implies --save)")
}

// emit prints v and saves a report when asked. A view carrying an error is
// printed as an error panel and turned into errReported.
func (a *app) emit(cmd *cobra.Command, v render.View, kind string, ticket uuid.UUID, input string) error {
	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	var err error
	if asJSON {
		err = render.WriteJSON(out, v)
	} else {
		err = render.Write(out, v, a.textOptions())
	}
	if err != nil {
		return err
	}
	if v.Kind == render.KindError {
		return errReported
	}

	save, _ := cmd.Flags().GetBool("save")
	path, _ := cmd.Flags().GetString("report")
	if !save && path == "" {
		return nil
	}
	saved, err := workspace.SaveReport(a.root, path, workspace.Report{
		ID:        ticket.String(),
		Workflow:  kind,
		Input:     analysis.Excerpt(input, 120),
		CreatedAt: time.Now().UTC(),
		Result:    v,
	})
	if err != nil {
		return err
	}
	a.log.Info("report saved", logger.String("path", saved))
	if !asJSON {
		_, err = io.WriteString(cmd.ErrOrStderr(), "Report saved to "+saved+"\n")
	}
	return err
}

// readText returns the text to submit: the joined arguments, the --file
// contents, or stdin when the argument is "-" or stdin is piped.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	if (len(args) == 1 && args[0] == "-") || (len(args) == 0 && !isTerminal(os.Stdin)) {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return strings.Join(args, " "), nil
}
