package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"ai_detector/internal/config"
)

func shouldUseTUI(mode config.UIMode) bool {
	switch mode {
	case config.UIOn:
		return true
	case config.UIOff:
		return false
	default:
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	}
}

// readColorMode resolves --color. auto follows the terminal and NO_COLOR.
func readColorMode(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return !color.NoColor && isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
