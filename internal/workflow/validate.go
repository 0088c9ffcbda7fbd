package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"ai_detector/internal/analysis"
)

const (
	MsgEmptyDetect   = "Please enter some text to analyze"
	MsgEmptyHumanize = "Please enter some text to humanize"
	MsgNoFile        = "Please select a file to upload"
	MsgBadFileType   = "Please upload a PDF, DOC, DOCX, or TXT file"
	MsgFileTooLarge  = "File size must be less than 10MB"
)

const MaxUploadBytes int64 = 10 * 1024 * 1024

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var allowedMimeTypes = map[string]struct{}{
	MimePDF:  {},
	MimeDOC:  {},
	MimeDOCX: {},
	MimeText: {},
}

// Same mapping a browser file picker applies from the extension.
var mimeByExt = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
	".txt":  MimeText,
}

// ErrValidation matches every local validation failure via errors.Is.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func textValidator(msg string) func(string) error {
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return invalid(msg)
		}
		return nil
	}
}

func ValidateFile(f analysis.UploadedFile) error {
	if f.IsZero() {
		return invalid(MsgNoFile)
	}
	if _, ok := allowedMimeTypes[f.MimeType]; !ok {
		return invalid(MsgBadFileType)
	}
	if f.Size > MaxUploadBytes {
		return invalid(MsgFileTooLarge)
	}
	return nil
}

// Inspect builds the UploadedFile for a path. mimeOverride, when set, wins
// over the extension table and content sniffing.
func Inspect(path, mimeOverride string) (analysis.UploadedFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return analysis.UploadedFile{}, invalid(MsgNoFile)
	}
	info, err := os.Stat(path)
	if err != nil {
		return analysis.UploadedFile{}, &ValidationError{Message: fmt.Sprintf("Cannot read file: %s", filepath.Base(path))}
	}
	if info.IsDir() {
		return analysis.UploadedFile{}, invalid(MsgNoFile)
	}
	mt := strings.TrimSpace(mimeOverride)
	if mt == "" {
		mt = detectMime(path)
	}
	return analysis.UploadedFile{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MimeType: mt,
		Path:     path,
	}, nil
}

func detectMime(path string) string {
	if mt, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	base, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(base)
}
