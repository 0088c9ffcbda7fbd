package aidetect

import (
	"context"
	"errors"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ai_detector/internal/chunk"
	"ai_detector/internal/classify"
	"ai_detector/internal/logger"
	"ai_detector/internal/pipeline"
)

const (
	LabelAI    = "AI"
	LabelMixed = "Mixed"
	LabelHuman = "Human"
)

var ErrEmptyText = errors.New("text is empty")

type SentenceScore struct {
	Text       string
	Score      float64
	Likelihood classify.Tier
}

type Report struct {
	Score      float64
	Label      string
	Likelihood classify.Tier
	Uniformity float64
	Sentences  []SentenceScore
	WordCount  int
	Duration   time.Duration
}

// Config holds the logistic weights of the sentence scorer and the share of
// document-level style uniformity in the overall score.
type Config struct {
	Bias              float64
	PhraseWeight      float64
	FormalityWeight   float64
	ContractionWeight float64
	InformalWeight    float64
	UniformityShare   float64
	Workers           int
}

func DefaultConfig() Config {
	return Config{
		Bias:              getenvFloat("ADH_AI_BIAS", -1.0),
		PhraseWeight:      getenvFloat("ADH_AI_PHRASE_WEIGHT", 3.2),
		FormalityWeight:   getenvFloat("ADH_AI_FORMALITY_WEIGHT", 1.5),
		ContractionWeight: getenvFloat("ADH_AI_CONTRACTION_WEIGHT", 1.2),
		InformalWeight:    getenvFloat("ADH_AI_INFORMAL_WEIGHT", 1.0),
		UniformityShare:   getenvFloat("ADH_AI_UNIFORMITY_SHARE", 0.25),
		Workers:           getenvInt("ADH_AI_WORKERS", 0),
	}
}

func Analyze(ctx context.Context, text string, cfg Config, log logger.Logger) (Report, error) {
	if log == nil {
		log = logger.NewNop()
	}
	start := time.Now()
	segments := chunk.Sentences(text)
	if len(segments) == 0 {
		return Report{}, ErrEmptyText
	}

	scores, err := pipeline.Map(ctx, segments, cfg.Workers, func(_ context.Context, _ int, seg chunk.Segment) (float64, error) {
		return sentenceScore(seg.Text, cfg), nil
	})
	if err != nil {
		return Report{}, err
	}

	report := Report{Sentences: make([]SentenceScore, len(segments))}
	weighted, totalWords := 0.0, 0
	for i, seg := range segments {
		n := max(1, len(tokenize(seg.Text)))
		weighted += scores[i] * float64(n)
		totalWords += n
		report.Sentences[i] = SentenceScore{
			Text:       seg.Text,
			Score:      round3(scores[i]),
			Likelihood: classify.TierForScore(scores[i]),
		}
	}
	mean := weighted / float64(totalWords)

	overall := mean
	if len(segments) >= 3 {
		report.Uniformity = styleUniformityScore(segments)
		share := clamp01(cfg.UniformityShare)
		overall = (1-share)*mean + share*report.Uniformity
	}
	report.Score = round3(clamp01(overall))
	report.Likelihood = classify.TierForScore(report.Score)
	report.Label = labelFor(report.Likelihood)
	report.WordCount = chunk.Words(text)
	report.Duration = time.Since(start)

	log.Debug("text scored",
		logger.Int("sentences", len(segments)),
		logger.Int("words", report.WordCount),
		logger.Float64("score", report.Score),
		logger.Duration("elapsed", report.Duration))
	return report, nil
}

func labelFor(t classify.Tier) string {
	switch t {
	case classify.TierHigh:
		return LabelAI
	case classify.TierMedium:
		return LabelMixed
	default:
		return LabelHuman
	}
}

func sentenceScore(sentence string, cfg Config) float64 {
	words := tokenize(sentence)
	if len(words) == 0 {
		return 0
	}
	lower := strings.ToLower(sentence)

	z := cfg.Bias
	z += cfg.PhraseWeight * polishClicheScore(words, lower)
	z += cfg.FormalityWeight * formalityScore(words)
	if hasContraction(words) {
		z -= cfg.ContractionWeight
	}
	z -= cfg.InformalWeight * informalScore(words, sentence)
	return clamp01(sigmoid(z))
}

// polishClicheScore combines the density of stock vocabulary with hits on
// stock multi-word frames.
func polishClicheScore(words []string, lower string) float64 {
	hits := 0
	for _, w := range words {
		if _, ok := stockVocabulary[w]; ok {
			hits++
		}
	}
	density := clamp01(float64(hits) / float64(len(words)) * 8.0)

	frames := 0
	for _, re := range stockFramePatterns {
		frames += len(re.FindAllStringIndex(lower, -1))
	}
	return math.Max(density, clamp01(float64(frames)*0.6))
}

// formalityScore rises with mean word length above plain conversational English.
func formalityScore(words []string) float64 {
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	mean := float64(total) / float64(len(words))
	return clamp01((mean - 4.4) / 2.0)
}

func hasContraction(words []string) bool {
	for _, w := range words {
		if strings.Contains(w, "'") && !strings.HasSuffix(w, "'") && !strings.HasPrefix(w, "'") {
			return true
		}
	}
	return false
}

func informalScore(words []string, sentence string) float64 {
	score := 0.0
	if strings.ContainsAny(sentence, "!?") {
		score += 0.4
	}
	for _, w := range words {
		if _, ok := informalMarkers[w]; ok {
			score += 0.5
		}
	}
	return clamp01(score)
}

// styleUniformityScore is high when sentence lengths barely vary and the
// vocabulary repeats.
func styleUniformityScore(segments []chunk.Segment) float64 {
	lengths := make([]float64, 0, len(segments))
	all := make([]string, 0, len(segments)*12)
	for _, seg := range segments {
		words := tokenize(seg.Text)
		if len(words) == 0 {
			continue
		}
		lengths = append(lengths, float64(len(words)))
		all = append(all, words...)
	}
	if len(lengths) == 0 {
		return 0
	}
	_, sd := meanStd(lengths)
	mattr := mattrScore(all, 100)
	a := clamp01((8.0 - sd) / 8.0)
	c := clamp01((0.72 - mattr) / 0.30)
	return clamp01(0.7*a + 0.3*c)
}

func mattrScore(words []string, n int) float64 {
	if len(words) == 0 {
		return 0
	}
	if len(words) <= n {
		seen := map[string]struct{}{}
		for _, w := range words {
			seen[w] = struct{}{}
		}
		return float64(len(seen)) / float64(len(words))
	}
	sum := 0.0
	count := 0
	for i := 0; i+n <= len(words); i += n / 2 {
		seen := map[string]struct{}{}
		for _, w := range words[i : i+n] {
			seen[w] = struct{}{}
		}
		sum += float64(len(seen)) / float64(n)
		count++
	}
	return sum / float64(count)
}

func meanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) == 1 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

var wordFinder = regexp.MustCompile(`[a-z0-9]+(?:['’][a-z]+)*`)

func tokenize(text string) []string {
	words := wordFinder.FindAllString(strings.ToLower(text), -1)
	for i, w := range words {
		words[i] = strings.ReplaceAll(w, "’", "'")
	}
	return words
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
