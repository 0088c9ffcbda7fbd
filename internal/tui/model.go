package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"ai_detector/internal/analysis"
	"ai_detector/internal/lifecycle"
	"ai_detector/internal/logger"
	"ai_detector/internal/render"
	"ai_detector/internal/workflow"
)

type tab int

const (
	tabDetect tab = iota
	tabUpload
	tabHumanize
	tabCount
)

func (t tab) kind() workflow.Kind {
	switch t {
	case tabUpload:
		return workflow.KindUpload
	case tabHumanize:
		return workflow.KindHumanize
	default:
		return workflow.KindDetect
	}
}

func (t tab) title() string {
	switch t {
	case tabUpload:
		return "Upload File"
	case tabHumanize:
		return "Humanize Text"
	default:
		return "Detect Text"
	}
}

type analysisResultMsg struct {
	kind   workflow.Kind
	ticket uuid.UUID
	result analysis.AnalysisResult
	err    error
}

type humanizeResultMsg struct {
	ticket uuid.UUID
	result analysis.HumanizeResult
	err    error
}

type Options struct {
	Context   context.Context
	Workflows workflow.Set
	Logger    logger.Logger
	BaseURL   string
}

// Model is the interactive front end over the three workflows. Each tab owns
// its input widget and drives its own controller.
type Model struct {
	ctx     context.Context
	set     workflow.Set
	log     logger.Logger
	baseURL string

	active        tab
	detectInput   textarea.Model
	humanizeInput textarea.Model
	pathInput     textinput.Model
	spinner       spinner.Model
	results       viewport.Model

	// humanizeOriginal is the text the current humanize result was made from.
	humanizeOriginal string
	width            int
	height           int
}

const (
	defaultWidth  = 100
	defaultHeight = 40
	inputHeight   = 6
)

func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	detect := newTextArea("Paste the text to analyze...")
	detect.Focus()
	humanize := newTextArea("Paste the text to humanize...")

	path := textinput.New()
	path.Placeholder = "Path to a PDF, DOC, DOCX or TXT file, then press enter"
	path.Prompt = "file › "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &Model{
		ctx:           ctx,
		set:           opts.Workflows,
		log:           log,
		baseURL:       opts.BaseURL,
		detectInput:   detect,
		humanizeInput: humanize,
		pathInput:     path,
		spinner:       sp,
		results:       viewport.New(defaultWidth, defaultHeight/2),
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

func newTextArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	return ta
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case analysisResultMsg:
		m.resolveAnalysis(msg)
		return m, nil
	case humanizeResultMsg:
		m.resolveHumanize(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "tab":
		m.switchTab((m.active + 1) % tabCount)
		return nil
	case "shift+tab":
		m.switchTab((m.active + tabCount - 1) % tabCount)
		return nil
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		m.reset()
		return nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return cmd
	case "enter":
		if m.active == tabUpload {
			m.selectFile()
			return nil
		}
	}

	// Inputs are locked while their workflow is submitting.
	if m.submitting(m.active) {
		return nil
	}
	var cmd tea.Cmd
	switch m.active {
	case tabDetect:
		m.detectInput, cmd = m.detectInput.Update(msg)
	case tabHumanize:
		m.humanizeInput, cmd = m.humanizeInput.Update(msg)
	case tabUpload:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return cmd
}

func (m *Model) switchTab(t tab) {
	m.detectInput.Blur()
	m.humanizeInput.Blur()
	m.pathInput.Blur()
	m.active = t
	switch t {
	case tabDetect:
		m.detectInput.Focus()
	case tabHumanize:
		m.humanizeInput.Focus()
	case tabUpload:
		m.pathInput.Focus()
	}
	m.refresh()
}

func (m *Model) submitting(t tab) bool {
	switch t {
	case tabUpload:
		return !m.set.Upload.CanSubmit()
	case tabHumanize:
		return !m.set.Humanize.CanSubmit()
	default:
		return !m.set.Detect.CanSubmit()
	}
}

// submit starts a request for the active tab. A second submit while one is
// outstanding is ignored.
func (m *Model) submit() tea.Cmd {
	if m.submitting(m.active) {
		return nil
	}
	var call tea.Cmd
	switch m.active {
	case tabDetect:
		c := m.set.Detect
		if err := c.SetInput(m.detectInput.Value()); err != nil {
			return nil
		}
		ticket, err := c.Begin()
		if err != nil {
			break
		}
		call = callAnalysis(m.ctx, m.active.kind(), c, ticket)
	case tabUpload:
		c := m.set.Upload
		if path := strings.TrimSpace(m.pathInput.Value()); path != "" && path != c.Input().Path {
			if _, err := workflow.SelectFile(c, path, ""); err != nil {
				m.refresh()
				return nil
			}
		}
		ticket, err := c.Begin()
		if err != nil {
			break
		}
		call = callAnalysis(m.ctx, m.active.kind(), c, ticket)
	case tabHumanize:
		c := m.set.Humanize
		text := m.humanizeInput.Value()
		if err := c.SetInput(text); err != nil {
			return nil
		}
		ticket, err := c.Begin()
		if err != nil {
			break
		}
		m.humanizeOriginal = text
		call = callHumanize(m.ctx, c, ticket)
	}
	m.refresh()
	if call == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, call)
}

func callAnalysis[In any](ctx context.Context, kind workflow.Kind, c *lifecycle.Controller[In, analysis.AnalysisResult], ticket uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Call(ctx, ticket)
		return analysisResultMsg{kind: kind, ticket: ticket, result: res, err: err}
	}
}

func callHumanize(ctx context.Context, c *workflow.Humanize, ticket uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Call(ctx, ticket)
		return humanizeResultMsg{ticket: ticket, result: res, err: err}
	}
}

func (m *Model) resolveAnalysis(msg analysisResultMsg) {
	var err error
	if msg.kind == workflow.KindUpload {
		err = m.set.Upload.Resolve(msg.ticket, msg.result, msg.err)
	} else {
		err = m.set.Detect.Resolve(msg.ticket, msg.result, msg.err)
	}
	if errors.Is(err, lifecycle.ErrStale) {
		m.log.Debug("late response dropped",
			logger.String("workflow", string(msg.kind)),
			logger.String("request_id", msg.ticket.String()))
	}
	m.refresh()
}

func (m *Model) resolveHumanize(msg humanizeResultMsg) {
	if err := m.set.Humanize.Resolve(msg.ticket, msg.result, msg.err); errors.Is(err, lifecycle.ErrStale) {
		m.log.Debug("late response dropped",
			logger.String("workflow", string(workflow.KindHumanize)),
			logger.String("request_id", msg.ticket.String()))
	}
	m.refresh()
}

func (m *Model) selectFile() {
	if m.submitting(tabUpload) {
		return
	}
	f, err := workflow.SelectFile(m.set.Upload, m.pathInput.Value(), "")
	if err == nil {
		m.log.Debug("file selected", logger.String("file", f.Name), logger.Int64("size", f.Size))
	}
	m.refresh()
}

// reset clears the active workflow whatever its phase. A response still in
// flight is dropped when it arrives.
func (m *Model) reset() {
	switch m.active {
	case tabDetect:
		m.set.Detect.Reset()
		m.detectInput.Reset()
	case tabUpload:
		m.set.Upload.Reset()
		m.pathInput.Reset()
	case tabHumanize:
		m.set.Humanize.Reset()
		m.humanizeInput.Reset()
		m.humanizeOriginal = ""
	}
	m.refresh()
}

func (m *Model) resize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	inner := max(20, m.width-4)
	m.detectInput.SetWidth(inner)
	m.humanizeInput.SetWidth(inner)
	m.pathInput.Width = inner - 8
	m.results.Width = inner
	// header, tabs, input panel, status and help lines
	m.results.Height = max(5, m.height-inputHeight-12)
}

// currentView returns the render model of the active tab.
func (m *Model) currentView() render.View {
	switch m.active {
	case tabUpload:
		return render.Analysis(m.set.Upload.State())
	case tabHumanize:
		return render.Humanize(m.set.Humanize.State(), m.humanizeOriginal)
	default:
		return render.Analysis(m.set.Detect.State())
	}
}

func (m *Model) refresh() {
	m.results.SetContent(renderResults(m.currentView(), m.results.Width))
	m.results.GotoTop()
}
