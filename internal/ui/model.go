package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"

	"github.com/dpshade/promptdeck/internal/editor"
	"github.com/dpshade/promptdeck/internal/errors"
	"github.com/dpshade/promptdeck/internal/session"
)

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Check for environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch {
	case profile == termenv.Ascii:
		styleOption = glamour.WithStandardStyle("notty")
	case profile != termenv.TrueColor && profile != termenv.ANSI256:
		// Limited color terminals
		styleOption = glamour.WithAutoStyle()
	case lipgloss.HasDarkBackground():
		styleOption = glamour.WithStandardStyle("dark")
	default:
		styleOption = glamour.WithStandardStyle("light")
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// Library is what the host reads directly: prompt bodies for the preview
// and file paths for the editor.
type Library interface {
	ReadContent(key string) (string, error)
	Path(key string) string
}

// editorFinishedMsg is sent when the external editor exits
type editorFinishedMsg struct {
	key string
	err error
}

// Model is the bubbletea host around the session controller
type Model struct {
	ctrl     *session.Controller
	exec     *session.Executor
	library  Library
	launcher *editor.Launcher
	log      *logrus.Logger

	viewport        viewport.Model
	help            help.Model
	glamourRenderer *glamour.TermRenderer

	width  int
	height int

	// preview cache, keyed by record key and wrap width
	previewKey   string
	previewWidth int
}

// Options wires a Model
type Options struct {
	Controller *session.Controller
	Executor   *session.Executor
	Library    Library
	Launcher   *editor.Launcher
	Logger     *logrus.Logger
}

// NewModel creates the host model
func NewModel(opts Options) (*Model, error) {
	initializeColors()

	renderer, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	vp := viewport.New(80, 20) // Default size, will be updated on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle()

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Model{
		ctrl:            opts.Controller,
		exec:            opts.Executor,
		library:         opts.Library,
		launcher:        opts.Launcher,
		log:             logger,
		viewport:        vp,
		help:            help.New(),
		glamourRenderer: renderer,
	}, nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.scrollPreview(msg) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		effects := m.ctrl.HandleEvent(msg)
		if mutates(effects) {
			m.previewKey = ""
		}
		edits := m.exec.Run(effects)
		if m.ctrl.Quitting() {
			return m, tea.Quit
		}
		m.refreshPreview()
		if len(edits) > 0 {
			return m, m.edit(edits[0].Key)
		}
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.ctrl.ReportError(errors.ExternalError("launch editor", msg.err).WithContext("key", msg.key))
		} else if err := m.ctrl.Reload(); err != nil {
			m.ctrl.ReportError(err)
		} else {
			m.ctrl.SelectKey(msg.key)
		}
		m.previewKey = ""
		m.refreshPreview()
		return m, nil
	}
	return m, nil
}

// resize recomputes pane sizes. The glamour renderer is rebuilt because its
// word wrap is fixed at construction.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	_, previewWidth := m.paneWidths()
	m.viewport.Width = previewWidth
	m.viewport.Height = max(height-8, 3)

	wrap := max(previewWidth-4, 20)
	if renderer, err := createGlamourRenderer(wrap); err == nil {
		m.glamourRenderer = renderer
	} else {
		m.log.WithError(err).Warn("failed to rebuild markdown renderer")
	}
	m.previewKey = ""
	m.refreshPreview()
}

// paneWidths splits the screen between the list and the preview
func (m Model) paneWidths() (int, int) {
	width := m.width - 4
	if width < 40 {
		return max(width, 10), 0
	}
	list := width * 2 / 5
	return list, width - list - 1
}

// scrollPreview reports whether msg scrolls the preview instead of reaching
// the controller. Only page keys qualify and only when no dialog is open.
func (m Model) scrollPreview(msg tea.KeyMsg) bool {
	if m.ctrl.Overlay() != nil || m.ctrl.BuildActive() || m.ctrl.Banner() != nil {
		return false
	}
	switch msg.String() {
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		return true
	}
	return false
}

// mutates reports whether effects may change what the preview shows
func mutates(effects []session.Effect) bool {
	for _, eff := range effects {
		switch eff.(type) {
		case session.CopyEffect, session.PersistEffect:
		default:
			return true
		}
	}
	return false
}

// edit hands the terminal to the external editor
func (m Model) edit(key string) tea.Cmd {
	path := m.library.Path(key)
	m.log.WithFields(logrus.Fields{"key": key, "editor": m.launcher.Program}).Info("launching editor")
	return tea.ExecProcess(m.launcher.Cmd(path), func(err error) tea.Msg {
		return editorFinishedMsg{key: key, err: err}
	})
}

// refreshPreview renders the selected prompt into the preview viewport.
// The rendering is cached until the selection or width changes.
func (m *Model) refreshPreview() {
	sel := m.ctrl.Selected()
	if sel == nil {
		m.previewKey = ""
		m.viewport.SetContent(StyleTextDim.Render("No prompt selected"))
		return
	}
	width := m.viewport.Width
	if m.previewKey == sel.Key && m.previewWidth == width {
		return
	}

	m.previewKey = sel.Key
	m.previewWidth = width
	m.viewport.GotoTop()

	content, err := m.library.ReadContent(sel.Key)
	if err != nil {
		m.log.WithError(err).WithField("key", sel.Key).Warn("failed to read prompt for preview")
		m.viewport.SetContent(StyleError.Render("Unable to read prompt"))
		return
	}

	rendered := content
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(content); err == nil {
			rendered = out
		}
	}

	meta := []string{sel.Role.Label()}
	if tags := joinTags(sel.Tags); tags != "" {
		meta = append(meta, tags)
	}
	if sel.Description != "" {
		meta = append(meta, sel.Description)
	}
	m.viewport.SetContent(StyleSubtitle.Render(sel.DisplayName()) + "\n" +
		StyleTextMuted.Render(truncate(strings.Join(meta, " · "), width)) + "\n" + rendered)
}
