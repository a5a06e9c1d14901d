// Package tui implements the Bubble Tea terminal user interface.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sprite-ai/medrag/internal/chat"
	"github.com/sprite-ai/medrag/internal/model"
	"github.com/sprite-ai/medrag/internal/render"
)

const (
	chatPlaceholder = "Ask about your report (e.g., 'Is my cholesterol okay?')"
	analyzingText   = "Scanning document & extracting data... (This takes ~50s-60s)"
	thinkingText    = "Thinking..."

	pickerRows = 8
	// filepicker sizes itself to the window height minus this margin.
	pickerMargin = 5
)

type analyzeDoneMsg struct {
	call  *chat.AnalyzeCall
	reply *model.AnalyzeReply
	err   error
}

type chatDoneMsg struct {
	call  *chat.ChatCall
	reply *model.ChatReply
	err   error
}

// Model is the top-level Bubble Tea model for medrag.
type Model struct {
	ctx  context.Context
	ctrl *chat.Controller

	// UI state
	width  int
	height int

	// Upload mode
	picker    filepicker.Model
	selected  *model.Document
	selectErr string

	// Chat mode
	input textinput.Model

	// Transcript
	viewport     viewport.Model
	spinner      spinner.Model
	rendered     string // cached transcript render
	renderedLen  int
	renderedSize int

	showRaw  bool
	showHelp bool
}

// Options configures a new Model.
type Options struct {
	// StartDir is where the file picker opens. Empty means the working directory.
	StartDir string
	// Document preselects a file for upload.
	Document *model.Document
}

// New creates a TUI model driving ctrl.
func New(ctx context.Context, ctrl *chat.Controller, opts Options) Model {
	fp := filepicker.New()
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}

	ti := textinput.New()
	ti.Placeholder = chatPlaceholder
	ti.Prompt = "› "
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		picker:   fp,
		selected: opts.Document,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
	if ctrl.Mode() == chat.ModeChat {
		m.input.Focus()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: msg.Width, Height: pickerRows + pickerMargin})
		m.refresh()
		return m, nil

	case analyzeDoneMsg:
		m.ctrl.FinishAnalyze(msg.call, msg.reply, msg.err)
		var cmd tea.Cmd
		if m.ctrl.Mode() == chat.ModeChat {
			m.selected = nil
			cmd = m.input.Focus()
			m.layout()
		}
		m.refresh()
		return m, cmd

	case chatDoneMsg:
		m.ctrl.FinishChat(msg.call, msg.reply, msg.err)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil // stop ticking
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, keys.Raw) {
			m.showRaw = !m.showRaw
			return m, nil
		}
		if key.Matches(msg, keys.PageUp, keys.PageDown) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.ctrl.Mode() == chat.ModeUpload {
			return m.updateUpload(msg)
		}
		return m.updateChat(msg)
	}

	// Anything else (directory listings, cursor blinks) goes to the active control.
	var cmd tea.Cmd
	if m.ctrl.Mode() == chat.ModeUpload {
		m.picker, cmd = m.picker.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.QuitAlt):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, keys.Analyze):
		return m.analyze()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		doc, err := model.LoadDocument(path)
		if err != nil {
			m.selected = nil
			m.selectErr = err.Error()
		} else {
			m.selected = doc
			m.selectErr = ""
		}
	}
	return m, cmd
}

func (m Model) analyze() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanAnalyze(m.selected != nil) {
		return m, nil
	}
	call, err := m.ctrl.BeginAnalyze(m.selected)
	if err != nil {
		return m, nil
	}
	m.refresh()

	ctx := m.ctx
	send := func() tea.Msg {
		reply, err := call.Send(ctx)
		return analyzeDoneMsg{call: call, reply: reply, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, send)
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Send) {
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	if !m.ctrl.CanSend() {
		return m, nil
	}
	call, err := m.ctrl.BeginChat(m.input.Value())
	if err != nil {
		return m, nil
	}
	m.input.Reset()
	m.refresh()

	ctx := m.ctx
	send := func() tea.Msg {
		reply, err := call.Send(ctx)
		return chatDoneMsg{call: call, reply: reply, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, send)
}

func (m Model) busy() bool {
	return m.ctrl.Analyzing() || m.ctrl.Typing()
}

// layout sizes the viewport and input to the window.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	vh := m.height - headerHeight - m.inputAreaHeight() - statusBarHeight
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = vh
	m.input.Width = m.width - 16 // border, padding, prompt, send button
}

// refresh rebuilds the viewport content and sticks to the bottom.
func (m *Model) refresh() {
	width := m.width
	if width == 0 {
		width = 80
	}
	if m.renderedLen != m.ctrl.Len() || m.renderedSize != width {
		m.rendered = render.Transcript(m.ctrl.Entries(), width-2)
		m.renderedLen = m.ctrl.Len()
		m.renderedSize = width
	}

	var b strings.Builder
	b.WriteString(m.rendered)
	switch {
	case m.ctrl.Analyzing():
		b.WriteString("\n\n" + m.spinner.View() + " " + busyStyle.Render(analyzingText))
	case m.ctrl.Typing():
		b.WriteString("\n\n" + m.spinner.View() + " " + busyStyle.Render(thinkingText))
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// Run starts the TUI application.
func Run(ctx context.Context, ctrl *chat.Controller, opts Options) error {
	m := New(ctx, ctrl, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
