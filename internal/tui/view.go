package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"ai_detector/internal/classify"
	"ai_detector/internal/render"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5"))
	tabStyle   = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("7"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("1")).PaddingLeft(1)
	headingStyle = lipgloss.NewStyle().Bold(true)
)

// ansi maps a category color onto the terminal's base palette.
func ansi(c classify.Color) lipgloss.Color {
	switch c {
	case classify.Red:
		return lipgloss.Color("1")
	case classify.Yellow:
		return lipgloss.Color("3")
	default:
		return lipgloss.Color("2")
	}
}

func tone(c classify.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ansi(c))
}

func badge(c classify.Color, text string) string {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(lipgloss.Color("15")).Background(ansi(c)).Render(text)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Detector & Humanizer"))
	if m.baseURL != "" {
		b.WriteString("  " + dimStyle.Render(m.baseURL))
	}
	b.WriteString("\n\n")

	tabs := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		if t == m.active {
			tabs = append(tabs, activeTabStyle.Render(t.title()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.title()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	b.WriteString(panelStyle.Width(max(20, m.width-2)).Render(m.inputPanel()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.results.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("ctrl+s submit • ctrl+r clear • tab switch • pgup/pgdn scroll • esc quit"))
	return b.String()
}

func (m *Model) inputPanel() string {
	switch m.active {
	case tabUpload:
		var b strings.Builder
		b.WriteString(m.pathInput.View())
		b.WriteString("\n")
		if line := render.FileLine(m.set.Upload.Input()); line != "" {
			b.WriteString(headingStyle.Render("Selected: ") + line)
		} else {
			b.WriteString(dimStyle.Render("No file selected"))
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Supported formats: PDF, DOC, DOCX, TXT (max 10MB)"))
		return b.String()
	case tabHumanize:
		return m.humanizeInput.View() + "\n" + charCount(m.humanizeInput.Value())
	default:
		return m.detectInput.View() + "\n" + charCount(m.detectInput.Value())
	}
}

func charCount(text string) string {
	return dimStyle.Render(fmt.Sprintf("%d characters", utf8.RuneCountInString(text)))
}

func (m *Model) statusLine() string {
	if !m.submitting(m.active) {
		return ""
	}
	verb := "Analyzing..."
	if m.active == tabHumanize {
		verb = "Humanizing..."
	}
	return m.spinner.View() + " " + verb
}

// renderResults draws the result panel of one workflow at the given width.
func renderResults(v render.View, width int) string {
	switch v.Kind {
	case render.KindError:
		return errorStyle.Render(v.Error)
	case render.KindAnalysis:
		return renderAnalysis(v, width)
	case render.KindHumanized:
		return renderHumanized(v, width)
	default:
		return ""
	}
}

func renderAnalysis(v render.View, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Analysis Results"))
	b.WriteString("\n\n")

	if o := v.Overall; o != nil {
		st := tone(o.Color).Bold(true)
		b.WriteString(st.Render(o.Verdict))
		if o.Label != "" {
			b.WriteString("  " + dimStyle.Render(o.Label))
		}
		b.WriteString("\n")
		b.WriteString("Confidence Score " + st.Render(o.Percent) + "   AI Likelihood " + badge(o.BadgeColor, o.Likelihood))
		b.WriteString("\n")
		bar := progress.New(
			progress.WithSolidFill(string(ansi(o.Color))),
			progress.WithoutPercentage(),
			progress.WithWidth(min(60, max(10, width))),
		)
		b.WriteString(bar.ViewAs(o.Fill))
		b.WriteString("\n\n")
	}

	if len(v.Sentences) > 0 {
		b.WriteString(headingStyle.Render("Sentence-by-Sentence Analysis"))
		b.WriteString("\n")
		textWidth := max(10, width-18)
		for _, s := range v.Sentences {
			prefix := tone(s.Color).Render("▌") + " " + badge(s.Color, fmt.Sprintf("%-6s", s.Likelihood)) + " " +
				tone(s.PercentColor).Render(fmt.Sprintf("%4s", s.Percent)) + " "
			body := lipgloss.NewStyle().Width(textWidth).Render(s.Text)
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, prefix, body))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	legend := make([]string, 0, len(v.Guide))
	for _, g := range v.Guide {
		legend = append(legend, tone(g.Category.Color).Render(g.Title+": "+g.Description))
	}
	b.WriteString(strings.Join(legend, "   "))
	return b.String()
}

func renderHumanized(v render.View, width int) string {
	h := v.Humanized
	colWidth := max(20, (width-6)/2)
	left := panelStyle.Width(colWidth).Render(headingStyle.Render("Original Text") + "\n" + h.Original)
	right := panelStyle.Width(colWidth).BorderForeground(ansi(classify.Green)).
		Render(tone(classify.Green).Bold(true).Render("Humanized Text") + "\n" + h.Humanized)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")
	if s := h.Stats; s != nil {
		b.WriteString(fmt.Sprintf("Original Length %s   Humanized Length %s   Words Changed %s   Improvement %s",
			s.OriginalLength, s.HumanizedLength, s.WordsChanged, s.Improvement))
	}
	return b.String()
}
