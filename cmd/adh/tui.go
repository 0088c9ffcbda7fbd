package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ai_detector/internal/logger"
	"ai_detector/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, appOptions{logToFile: true})
		if err != nil {
			return err
		}
		defer a.Close()
		return a.runTUI(cmd.Context())
	},
}

func (a *app) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	model := tui.New(tui.Options{
		Context:   ctx,
		Workflows: a.workflows(ctx),
		Logger:    a.log,
		BaseURL:   a.cfg.BaseURL,
	})
	a.log.Info("interactive session started", logger.String("base_url", a.cfg.BaseURL))
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
