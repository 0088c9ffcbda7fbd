package analysis

import "strings"

type Overall struct {
	Score        float64 `json:"score"`
	Label        string  `json:"label"`
	AILikelihood string  `json:"ai_likelihood"`
}

type Sentence struct {
	Sentence     string  `json:"sentence"`
	Score        float64 `json:"score"`
	AILikelihood string  `json:"ai_likelihood"`
}

// AnalysisResult is returned by both /api/detect and /api/upload. A nil
// Overall or empty Sentences hides that section; neither is an error.
type AnalysisResult struct {
	Overall   *Overall   `json:"overall,omitempty"`
	Sentences []Sentence `json:"sentences,omitempty"`
}

// Stats fields are pointers so a missing value stays distinct from zero.
type Stats struct {
	OriginalLength  *int    `json:"original_length,omitempty"`
	HumanizedLength *int    `json:"humanized_length,omitempty"`
	WordsChanged    *int    `json:"words_changed,omitempty"`
	Improvement     *string `json:"improvement,omitempty"`
}

type HumanizeResult struct {
	HumanizedText string `json:"humanized_text"`
	Stats         *Stats `json:"stats,omitempty"`
}

type TextRequest struct {
	Text string `json:"text"`
}

// UploadedFile is a selected document. It is replaced as a whole on every
// new selection and never edited in place.
type UploadedFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Path     string `json:"path"`
}

func (f UploadedFile) IsZero() bool {
	return f == UploadedFile{}
}

func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }

// Excerpt returns the first n runes of text with whitespace collapsed.
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if n <= 0 || len(r) <= n {
		return text
	}
	return string(r[:n])
}
