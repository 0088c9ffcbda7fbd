package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report is a saved rendering of one settled submission.
type Report struct {
	ID        string    `json:"id"`
	Workflow  string    `json:"workflow"`
	Input     string    `json:"input"`
	CreatedAt time.Time `json:"created_at"`
	Result    any       `json:"result"`
}

// SaveReport writes report as indented JSON. An empty path places it under
// data/reports of workspaceRoot, named after workflow and id.
func SaveReport(workspaceRoot, path string, report Report) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(ReportsDir(workspaceRoot), reportName(report))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func reportName(r Report) string {
	workflow := sanitizeName(r.Workflow)
	if workflow == "" {
		workflow = "report"
	}
	id := sanitizeName(r.ID)
	if id == "" {
		id = r.CreatedAt.UTC().Format("20060102T150405")
	}
	return workflow + "-" + id + ".json"
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.ReplaceAll(base, "..", "")
}
