package render

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"ai_detector/internal/analysis"
	"ai_detector/internal/classify"
	"ai_detector/internal/lifecycle"
)

const NotAvailable = "N/A"

type Kind string

const (
	KindEmpty     Kind = "empty"
	KindError     Kind = "error"
	KindAnalysis  Kind = "analysis"
	KindHumanized Kind = "humanized"
)

type OverallView struct {
	Verdict    string         `json:"verdict"`
	Label      string         `json:"label"`
	Percent    string         `json:"percent"`
	Fill       float64        `json:"fill"`
	Tier       classify.Tier  `json:"tier"`
	Color      classify.Color `json:"color"`
	Likelihood string         `json:"ai_likelihood"`
	BadgeColor classify.Color `json:"badge_color"`
}

type SentenceView struct {
	Index      int            `json:"index"`
	Text       string         `json:"sentence"`
	Percent    string         `json:"percent"`
	Likelihood string         `json:"ai_likelihood"`
	Color      classify.Color `json:"color"`
	// PercentColor follows the sentence's own score; Color follows its category.
	PercentColor classify.Color `json:"percent_color"`
}

type StatsView struct {
	OriginalLength  string `json:"original_length"`
	HumanizedLength string `json:"humanized_length"`
	WordsChanged    string `json:"words_changed"`
	Improvement     string `json:"improvement"`
}

type HumanizedView struct {
	Original  string     `json:"original"`
	Humanized string     `json:"humanized"`
	Stats     *StatsView `json:"stats,omitempty"`
}

// View is everything a renderer draws for one workflow. At most one of
// Error, the analysis sections, or Humanized is populated.
type View struct {
	Kind       Kind                  `json:"kind"`
	Submitting bool                  `json:"submitting,omitempty"`
	Error      string                `json:"error,omitempty"`
	Overall    *OverallView          `json:"overall,omitempty"`
	Sentences  []SentenceView        `json:"sentences,omitempty"`
	Humanized  *HumanizedView        `json:"humanized,omitempty"`
	Guide      []classify.GuideEntry `json:"-"`
}

func Analysis(st lifecycle.State[analysis.AnalysisResult]) View {
	switch {
	case st.Err != nil:
		return View{Kind: KindError, Error: st.Err.Error()}
	case st.Phase == lifecycle.Succeeded && st.Result != nil:
		return AnalysisResult(*st.Result)
	default:
		return View{Kind: KindEmpty, Submitting: st.Phase == lifecycle.Submitting}
	}
}

// AnalysisResult colors the overall section by its score and each sentence
// by its upstream ai_likelihood. Sentence scores only feed the percent text.
func AnalysisResult(res analysis.AnalysisResult) View {
	v := View{Kind: KindAnalysis, Guide: classify.Guide()}
	if o := res.Overall; o != nil {
		cat := classify.ForScore(o.Score)
		v.Overall = &OverallView{
			Verdict:    cat.Label,
			Label:      o.Label,
			Percent:    classify.Percent(o.Score, 1),
			Fill:       clamp01(o.Score),
			Tier:       cat.Tier,
			Color:      cat.Color,
			Likelihood: o.AILikelihood,
			BadgeColor: classify.ForLikelihood(o.AILikelihood).Color,
		}
	}
	if len(res.Sentences) > 0 {
		v.Sentences = make([]SentenceView, 0, len(res.Sentences))
		for i, s := range res.Sentences {
			v.Sentences = append(v.Sentences, SentenceView{
				Index:      i,
				Text:       s.Sentence,
				Percent:    classify.Percent(s.Score, 0),
				Likelihood: s.AILikelihood,
				Color:      classify.ForLikelihood(s.AILikelihood).Color,

				PercentColor: classify.ForScore(s.Score).Color,
			})
		}
	}
	return v
}

func Humanize(st lifecycle.State[analysis.HumanizeResult], original string) View {
	switch {
	case st.Err != nil:
		return View{Kind: KindError, Error: st.Err.Error()}
	case st.Phase == lifecycle.Succeeded && st.Result != nil:
		return HumanizeResult(*st.Result, original)
	default:
		return View{Kind: KindEmpty, Submitting: st.Phase == lifecycle.Submitting}
	}
}

func HumanizeResult(res analysis.HumanizeResult, original string) View {
	hv := &HumanizedView{Original: original, Humanized: res.HumanizedText}
	if s := res.Stats; s != nil {
		hv.Stats = &StatsView{
			OriginalLength:  intOrNA(s.OriginalLength),
			HumanizedLength: intOrNA(s.HumanizedLength),
			WordsChanged:    intOrNA(s.WordsChanged),
			Improvement:     stringOrNA(s.Improvement),
		}
	}
	return View{Kind: KindHumanized, Humanized: hv}
}

func intOrNA(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

func stringOrNA(v *string) string {
	if v == nil {
		return NotAvailable
	}
	return *v
}

// FileLine describes a selected file the way the file panel shows it.
func FileLine(f analysis.UploadedFile) string {
	if f.IsZero() {
		return ""
	}
	return f.Name + " (" + humanize.IBytes(uint64(max(f.Size, 0))) + ")"
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
