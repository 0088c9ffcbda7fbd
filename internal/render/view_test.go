package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_detector/internal/analysis"
	"ai_detector/internal/classify"
	"ai_detector/internal/lifecycle"
)

func weatherResult() analysis.AnalysisResult {
	return analysis.AnalysisResult{
		Overall: &analysis.Overall{Score: 0.85, Label: "AI", AILikelihood: "High"},
		Sentences: []analysis.Sentence{
			{Sentence: "The weather is nice today.", Score: 0.85, AILikelihood: "High"},
		},
	}
}

func TestAnalysisViewEndToEndShape(t *testing.T) {
	res := weatherResult()
	v := Analysis(lifecycle.State[analysis.AnalysisResult]{Phase: lifecycle.Succeeded, Result: &res})

	require.Equal(t, KindAnalysis, v.Kind)
	require.NotNil(t, v.Overall)
	assert.Equal(t, "Likely AI-Generated", v.Overall.Verdict)
	assert.Equal(t, classify.Red, v.Overall.Color)
	assert.Equal(t, "85.0%", v.Overall.Percent)
	assert.Equal(t, "AI", v.Overall.Label)
	require.Len(t, v.Sentences, 1)
	assert.Equal(t, classify.Red, v.Sentences[0].Color)
	assert.Equal(t, "85%", v.Sentences[0].Percent)
}

func TestSentenceColorFollowsCategoryNotScore(t *testing.T) {
	v := AnalysisResult(analysis.AnalysisResult{
		Sentences: []analysis.Sentence{
			{Sentence: "a", Score: 0.1, AILikelihood: "High"},
			{Sentence: "b", Score: 0.95, AILikelihood: "Low"},
			{Sentence: "c", Score: 0.95, AILikelihood: "whatever"},
			{Sentence: "d", Score: 0.0, AILikelihood: "Medium"},
		},
	})
	require.Len(t, v.Sentences, 4)
	assert.Equal(t, classify.Red, v.Sentences[0].Color)
	assert.Equal(t, "10%", v.Sentences[0].Percent)
	assert.Equal(t, classify.Green, v.Sentences[1].Color)
	assert.Equal(t, classify.Green, v.Sentences[2].Color)
	assert.Equal(t, classify.Yellow, v.Sentences[3].Color)
	assert.Nil(t, v.Overall)
}

func TestSentencePercentColorFollowsScore(t *testing.T) {
	v := AnalysisResult(analysis.AnalysisResult{
		Sentences: []analysis.Sentence{
			{Sentence: "a", Score: 0.1, AILikelihood: "High"},
			{Sentence: "b", Score: 0.5, AILikelihood: "Low"},
			{Sentence: "c", Score: 0.9, AILikelihood: "High"},
		},
	})
	require.Len(t, v.Sentences, 3)
	assert.Equal(t, classify.Red, v.Sentences[0].Color)
	assert.Equal(t, classify.Green, v.Sentences[0].PercentColor)
	assert.Equal(t, classify.Green, v.Sentences[1].Color)
	assert.Equal(t, classify.Yellow, v.Sentences[1].PercentColor)
	assert.Equal(t, classify.Red, v.Sentences[2].PercentColor)
}

func TestOverallColorFollowsScoreNotCategory(t *testing.T) {
	v := AnalysisResult(analysis.AnalysisResult{
		Overall: &analysis.Overall{Score: 0.4, Label: "x", AILikelihood: "High"},
	})
	require.NotNil(t, v.Overall)
	assert.Equal(t, classify.Yellow, v.Overall.Color)
	assert.Equal(t, "Possibly AI-Generated", v.Overall.Verdict)
	assert.Equal(t, classify.Red, v.Overall.BadgeColor)
	assert.Empty(t, v.Sentences)
}

func TestSentenceOrderPreserved(t *testing.T) {
	v := AnalysisResult(analysis.AnalysisResult{
		Sentences: []analysis.Sentence{{Sentence: "first"}, {Sentence: "second"}, {Sentence: "third"}},
	})
	require.Len(t, v.Sentences, 3)
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, v.Sentences[i].Text)
		assert.Equal(t, i, v.Sentences[i].Index)
	}
}

func TestEmptyAndErrorStates(t *testing.T) {
	v := Analysis(lifecycle.State[analysis.AnalysisResult]{Phase: lifecycle.Submitting})
	assert.Equal(t, KindEmpty, v.Kind)
	assert.True(t, v.Submitting)

	v = Analysis(lifecycle.State[analysis.AnalysisResult]{Phase: lifecycle.Failed, Err: errors.New("Failed to analyze file")})
	assert.Equal(t, KindError, v.Kind)
	assert.Equal(t, "Failed to analyze file", v.Error)

	v = Analysis(lifecycle.State[analysis.AnalysisResult]{Phase: lifecycle.Idle})
	assert.Equal(t, KindEmpty, v.Kind)
	assert.False(t, v.Submitting)
}

func TestStatsAbsentFieldsRenderNA(t *testing.T) {
	res := analysis.HumanizeResult{
		HumanizedText: "hi",
		Stats: &analysis.Stats{
			OriginalLength:  analysis.IntPtr(120),
			HumanizedLength: analysis.IntPtr(0),
		},
	}
	v := Humanize(lifecycle.State[analysis.HumanizeResult]{Phase: lifecycle.Succeeded, Result: &res}, "hello")
	require.Equal(t, KindHumanized, v.Kind)
	require.NotNil(t, v.Humanized.Stats)
	assert.Equal(t, "120", v.Humanized.Stats.OriginalLength)
	assert.Equal(t, "0", v.Humanized.Stats.HumanizedLength)
	assert.Equal(t, NotAvailable, v.Humanized.Stats.WordsChanged)
	assert.Equal(t, NotAvailable, v.Humanized.Stats.Improvement)
	assert.Equal(t, "hello", v.Humanized.Original)
}

func TestHumanizeWithoutStats(t *testing.T) {
	v := HumanizeResult(analysis.HumanizeResult{HumanizedText: "x"}, "y")
	assert.Nil(t, v.Humanized.Stats)
}

func TestWritePlainText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, AnalysisResult(weatherResult()), TextOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Likely AI-Generated")
	assert.Contains(t, out, "85.0%")
	assert.Contains(t, out, "The weather is nice today.")
	assert.Contains(t, out, "Low Score: Human-written content")
	assert.NotContains(t, out, "\x1b[")
}

func TestWriteColoredUsesRed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, AnalysisResult(weatherResult()), TextOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[31")
}

func TestWriteHumanizedStats(t *testing.T) {
	var buf bytes.Buffer
	v := HumanizeResult(analysis.HumanizeResult{
		HumanizedText: "it's fine",
		Stats:         &analysis.Stats{OriginalLength: analysis.IntPtr(120)},
	}, "it is fine")
	require.NoError(t, Write(&buf, v, TextOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Original Length   120")
	assert.Contains(t, out, "Words Changed     N/A")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, AnalysisResult(weatherResult())))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "analysis", decoded["kind"])
	overall := decoded["overall"].(map[string]any)
	assert.Equal(t, "red", overall["color"])
}

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), Bar(0.5, 10))
	assert.Equal(t, strings.Repeat("░", 10), Bar(-1, 10))
	assert.Equal(t, strings.Repeat("█", 10), Bar(3, 10))
}

func TestFileLine(t *testing.T) {
	assert.Equal(t, "essay.txt (5.0 MiB)", FileLine(analysis.UploadedFile{Name: "essay.txt", Size: 5 * 1024 * 1024}))
	assert.Equal(t, "", FileLine(analysis.UploadedFile{}))
}
