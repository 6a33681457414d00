package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/DrSkyle/lineblame/pkg/editor"
)

// Screen is the terminal's single editor. It is the editor.Host handed to
// the blame session, so every method is safe to call from reconcile
// goroutines while the program renders.
type Screen struct {
	mu sync.RWMutex

	doc    editor.Document
	lines  []string
	cursor int
	anchor int // -1 when no range is being extended

	decorations map[int]editor.Decoration

	label   string
	tooltip string
	notice  notice
}

type notice struct {
	level   string
	message string
}

// NewScreen shows lines as the content of path.
func NewScreen(path string, lines []string) *Screen {
	return &Screen{
		doc:         editor.FileDocument(path),
		lines:       lines,
		anchor:      -1,
		decorations: make(map[int]editor.Decoration),
	}
}

// OpenScreen loads path from disk.
func OpenScreen(path string) (*Screen, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	return NewScreen(path, lines), nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// Reload re-reads the document from disk and keeps the cursor in range.
func (s *Screen) Reload() error {
	lines, err := readLines(s.Document().Path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = lines
	s.cursor = clamp(s.cursor, 0, len(lines)-1)
	if s.anchor >= 0 {
		s.anchor = clamp(s.anchor, 0, len(lines)-1)
	}
	return nil
}

// Move shifts the cursor by delta. With extend the selection grows from
// where the cursor was; without it the selection collapses to the cursor.
func (s *Screen) Move(delta int, extend bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case extend && s.anchor < 0:
		s.anchor = s.cursor
	case !extend:
		s.anchor = -1
	}
	s.cursor = clamp(s.cursor+delta, 0, len(s.lines)-1)
	s.notice = notice{}
}

// Cursor returns the 0-based cursor line.
func (s *Screen) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Lines returns the document content.
func (s *Screen) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.lines...)
}

// Decoration returns the annotation on line, if any.
func (s *Screen) Decoration(line int) (editor.Decoration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decorations[line]
	return d, ok
}

// StatusLabel returns the status indicator label and tooltip.
func (s *Screen) StatusLabel() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.label, s.tooltip
}

// editor.Host

func (s *Screen) ActiveEditor() (editor.Editor, bool) { return s, true }

func (s *Screen) Status() editor.StatusIndicator { return s }

func (s *Screen) Notifier() editor.Notifier { return s }

// editor.Editor

func (s *Screen) Document() editor.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

func (s *Screen) Selections() []editor.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.lines) == 0 {
		return nil
	}
	if s.anchor < 0 {
		return []editor.Range{editor.LineRange(s.cursor, s.cursor)}
	}
	return []editor.Range{editor.LineRange(s.anchor, s.cursor)}
}

func (s *Screen) SetDecorations(decorations []editor.Decoration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decorations = make(map[int]editor.Decoration, len(decorations))
	for _, d := range decorations {
		s.decorations[d.Line] = d
	}
}

// editor.StatusIndicator

func (s *Screen) SetStatus(label, tooltip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label, s.tooltip = label, tooltip
}

// editor.Notifier

func (s *Screen) Error(message string) { s.notify("error", message) }

func (s *Screen) Warning(message string) { s.notify("warning", message) }

func (s *Screen) notify(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = notice{level: level, message: message}
}

func (s *Screen) currentNotice() notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notice
}

func (s *Screen) selected(line int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.anchor < 0 {
		return line == s.cursor
	}
	lo, hi := min(s.anchor, s.cursor), max(s.anchor, s.cursor)
	return line >= lo && line <= hi
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
