package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errReported marks a failure whose message was already printed as an
// error panel.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "adh",
	Short: "AI Detector & Humanizer client",
	Long: `adh sends text or documents to an AI-detection service and shows the
verdict per sentence, or asks the service to rewrite text so it reads as
human-written. Run without a subcommand to open the interactive UI.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(humanizeCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("base-url", "", "analysis service base URL (default http://localhost:8000)")
	pf.String("config", "", "config file (default <workspace>/configs/config.yaml)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("ui", "", "interactive UI (auto|on|off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, appOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if !shouldUseTUI(a.cfg.UI) {
		return cmd.Help()
	}
	return a.runTUI(cmd.Context())
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(f *os.File) int {
	if !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
