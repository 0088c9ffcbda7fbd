package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ai_detector/internal/classify"
)

const barWidth = 30

type TextOptions struct {
	Color bool
	// Width truncates sentence rows; zero leaves them whole.
	Width int
}

type palette struct {
	enabled bool
}

func (p palette) paint(c classify.Color, attrs ...color.Attribute) *color.Color {
	var fg color.Attribute
	switch c {
	case classify.Red:
		fg = color.FgRed
	case classify.Yellow:
		fg = color.FgYellow
	default:
		fg = color.FgGreen
	}
	out := color.New(append([]color.Attribute{fg}, attrs...)...)
	if p.enabled {
		out.EnableColor()
	} else {
		out.DisableColor()
	}
	return out
}

func (p palette) badge(c classify.Color) *color.Color {
	var bg color.Attribute
	switch c {
	case classify.Red:
		bg = color.BgRed
	case classify.Yellow:
		bg = color.BgYellow
	default:
		bg = color.BgGreen
	}
	out := color.New(bg, color.FgWhite, color.Bold)
	if p.enabled {
		out.EnableColor()
	} else {
		out.DisableColor()
	}
	return out
}

func (p palette) plain(attrs ...color.Attribute) *color.Color {
	out := color.New(attrs...)
	if p.enabled {
		out.EnableColor()
	} else {
		out.DisableColor()
	}
	return out
}

// Write draws v as terminal text.
func Write(w io.Writer, v View, opts TextOptions) error {
	p := palette{enabled: opts.Color}
	var b strings.Builder

	switch v.Kind {
	case KindError:
		b.WriteString(p.paint(classify.Red, color.Bold).Sprint("! " + v.Error))
		b.WriteString("\n")
	case KindAnalysis:
		writeAnalysis(&b, v, p, opts)
	case KindHumanized:
		writeHumanized(&b, v, p)
	default:
		if v.Submitting {
			b.WriteString("Analyzing...\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAnalysis(b *strings.Builder, v View, p palette, opts TextOptions) {
	bold := p.plain(color.Bold)
	b.WriteString(bold.Sprint("Analysis Results"))
	b.WriteString("\n\n")

	if o := v.Overall; o != nil {
		tone := p.paint(o.Color, color.Bold)
		fmt.Fprintf(b, "  Overall Result    %s\n", tone.Sprint(o.Verdict))
		if o.Label != "" {
			fmt.Fprintf(b, "  Service Label     %s\n", o.Label)
		}
		fmt.Fprintf(b, "  Confidence Score  %s\n", tone.Sprint(o.Percent))
		fmt.Fprintf(b, "  AI Likelihood     %s\n", p.badge(o.BadgeColor).Sprint(" "+o.Likelihood+" "))
		fmt.Fprintf(b, "  %s\n\n", p.paint(o.Color).Sprint(Bar(o.Fill, barWidth)))
	}

	if len(v.Sentences) > 0 {
		b.WriteString(bold.Sprint("Sentence-by-Sentence Analysis"))
		b.WriteString("\n")
		for _, s := range v.Sentences {
			tone := p.paint(s.Color)
			text := s.Text
			if opts.Width > 0 {
				text = Truncate(text, opts.Width-16)
			}
			fmt.Fprintf(b, "  %s %s %s %s\n",
				tone.Sprint("▌"),
				p.badge(s.Color).Sprint(" "+padRight(s.Likelihood, 6)+" "),
				p.paint(s.PercentColor).Sprint(fmt.Sprintf("%4s", s.Percent)),
				text,
			)
		}
		b.WriteString("\n")
	}

	if len(v.Guide) > 0 {
		parts := make([]string, 0, len(v.Guide))
		for _, g := range v.Guide {
			parts = append(parts, p.paint(g.Category.Color).Sprint(g.Title+": "+g.Description))
		}
		b.WriteString("  " + strings.Join(parts, "   ") + "\n")
	}
}

func writeHumanized(b *strings.Builder, v View, p palette) {
	h := v.Humanized
	bold := p.plain(color.Bold)
	b.WriteString(bold.Sprint("Original Text"))
	b.WriteString("\n")
	b.WriteString(indent(h.Original))
	b.WriteString("\n\n")
	b.WriteString(p.paint(classify.Green, color.Bold).Sprint("Humanized Text"))
	b.WriteString("\n")
	b.WriteString(indent(h.Humanized))
	b.WriteString("\n")
	if s := h.Stats; s != nil {
		b.WriteString("\n")
		fmt.Fprintf(b, "  Original Length   %s\n", s.OriginalLength)
		fmt.Fprintf(b, "  Humanized Length  %s\n", s.HumanizedLength)
		fmt.Fprintf(b, "  Words Changed     %s\n", s.WordsChanged)
		fmt.Fprintf(b, "  Improvement       %s\n", s.Improvement)
	}
}

// WriteJSON emits the view for scripting.
func WriteJSON(w io.Writer, v View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Bar draws a fixed-width progress bar filled to fraction.
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(clamp01(fraction) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func Truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
