// Package tui is an interactive terminal viewer that annotates the selected
// lines of one file with git blame.
package tui

import (
	"context"
	"path/filepath"

	"github.com/DrSkyle/lineblame/pkg/annotate"
	"github.com/DrSkyle/lineblame/pkg/engine"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// FileChangedMsg reports that a file was written on disk.
type FileChangedMsg struct {
	Path string
}

type reconciledMsg struct {
	result annotate.Result
}

type toggledMsg struct {
	on     bool
	result annotate.Result
}

type Model struct {
	ctx     context.Context
	session *engine.Session
	screen  *Screen

	keys KeyMap
	help help.Model

	// state
	width     int
	height    int
	showHover bool
	quitting  bool
	last      annotate.Result
}

func NewModel(ctx context.Context, s *engine.Session, screen *Screen) Model {
	return Model{
		ctx:     ctx,
		session: s,
		screen:  screen,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

// Screen returns the host the model drives.
func (m Model) Screen() *Screen {
	return m.screen
}

func (m Model) Init() tea.Cmd {
	m.session.Start(m.screen)
	return m.handle(engine.Event{Kind: engine.ActiveEditorChanged})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.screen.Move(-1, false)
		case key.Matches(msg, m.keys.Down):
			m.screen.Move(1, false)
		case key.Matches(msg, m.keys.ExtendUp):
			m.screen.Move(-1, true)
		case key.Matches(msg, m.keys.ExtendDown):
			m.screen.Move(1, true)
		case key.Matches(msg, m.keys.Toggle):
			return m, m.toggle()
		case key.Matches(msg, m.keys.Hover):
			m.showHover = !m.showHover
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if err := m.screen.Reload(); err != nil {
				m.screen.Error(err.Error())
				return m, nil
			}
			return m, m.handle(engine.Event{Kind: engine.DocumentSaved})
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		default:
			return m, nil
		}
		return m, m.handle(engine.Event{Kind: engine.SelectionChanged})

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case FileChangedMsg:
		if !m.shows(msg.Path) {
			return m, nil
		}
		if err := m.screen.Reload(); err != nil {
			m.screen.Error(err.Error())
			return m, nil
		}
		return m, m.handle(engine.Event{Kind: engine.DocumentChanged})

	case reconciledMsg:
		m.last = msg.result

	case toggledMsg:
		m.last = msg.result
		if !msg.on {
			m.showHover = false
		}
	}
	return m, nil
}

func (m Model) shows(path string) bool {
	current, err := filepath.Abs(m.screen.Document().Path)
	if err != nil {
		return false
	}
	return filepath.Clean(path) == current
}

// handle runs the event off the render loop; the screen is updated by the
// session through the editor.Host methods.
func (m Model) handle(ev engine.Event) tea.Cmd {
	return func() tea.Msg {
		return reconciledMsg{result: m.session.Handle(m.ctx, m.screen, ev)}
	}
}

func (m Model) toggle() tea.Cmd {
	return func() tea.Msg {
		on, res := m.session.Toggle(m.ctx, m.screen)
		return toggledMsg{on: on, result: res}
	}
}

// Run opens path and blocks until the user quits. With watch set, writes to
// the file on disk refresh its blame.
func Run(ctx context.Context, s *engine.Session, path string, watch bool, opts ...tea.ProgramOption) error {
	screen, err := OpenScreen(path)
	if err != nil {
		return err
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, s, screen), opts...)

	if watch {
		if err := s.Watch(func(changed string) { p.Send(FileChangedMsg{Path: changed}) }); err != nil {
			s.Logger.Warn("File watching disabled", "error", err)
		}
	}

	_, err = p.Run()
	return err
}
