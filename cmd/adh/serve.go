package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ai_detector/internal/aidetect"
	"ai_detector/internal/config"
	"ai_detector/internal/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in for the analysis service",
	Long: `Serve /api/detect, /api/upload and /api/humanize locally with a heuristic
scorer, for offline development. /health and /metrics are served as well.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", config.DefaultServerAddr, "listen address")
	serveCmd.Flags().StringSlice("allow-origin", nil, "CORS allowed origins (default any)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, appOptions{flags: map[string]string{config.KeyServerAddr: "addr"}})
	if err != nil {
		return err
	}
	defer a.Close()

	origins, _ := cmd.Flags().GetStringSlice("allow-origin")
	srv, err := devserver.New(devserver.Config{
		GinMode:      a.cfg.Server.GinMode,
		AllowOrigins: origins,
		Detector:     aidetect.DefaultConfig(),
	}, a.log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, a.cfg.Server.Addr)
}
