package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/lineblame/pkg/annotate"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(titleStyle.Render("lineblame"))
	s.WriteString(dimStyle.Render(filepath.Base(m.screen.Document().Path)))
	s.WriteString("\n\n")

	s.WriteString(m.viewLines())

	if m.showHover {
		if d, ok := m.screen.Decoration(m.screen.Cursor()); ok {
			s.WriteString(hoverStyle.Render(strings.TrimSuffix(d.Hover.Text(), "\n")))
			s.WriteString("\n")
		}
	}

	if n := m.screen.currentNotice(); n.message != "" {
		switch n.level {
		case "error":
			s.WriteString(errorStyle.Render("✗ " + n.message))
		default:
			s.WriteString(warningStyle.Render("! " + n.message))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.viewStatus())
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))
	return s.String()
}

func (m Model) viewLines() string {
	lines := m.screen.Lines()
	if len(lines) == 0 {
		return dimStyle.Render("   (empty file)") + "\n"
	}

	gutter := len(fmt.Sprint(len(lines)))
	start, end := m.calculateWindow(len(lines))

	s := strings.Builder{}
	for i := start; i < end; i++ {
		number := gutterStyle.Render(fmt.Sprintf("%*d ", gutter, i+1))

		marker := "  "
		style := lineNormalStyle
		if m.screen.selected(i) {
			marker = "▌ "
			style = lineSelectedStyle
		}

		row := number + marker + style.Render(lines[i])
		if d, ok := m.screen.Decoration(i); ok {
			row += annotationStyle.Render(d.Inline)
		}
		s.WriteString(row + "\n")
	}
	return s.String()
}

// calculateWindow keeps the cursor in view. Without a known height the
// whole file is shown.
func (m Model) calculateWindow(total int) (int, int) {
	if m.height <= 0 {
		return 0, total
	}
	windowSize := m.height - 8 // title + status + help
	if windowSize < 5 {
		windowSize = 5
	}

	start := m.screen.Cursor() - (windowSize / 2)
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func (m Model) viewStatus() string {
	label, tooltip := m.screen.StatusLabel()

	style := statusOffStyle
	switch label {
	case annotate.LabelOn:
		style = statusOnStyle
	case annotate.LabelNotRepo:
		style = statusWarnStyle
	}

	bar := style.Render(label)
	if tooltip != "" {
		bar = lipgloss.JoinHorizontal(lipgloss.Top, bar, dimStyle.Render("  "+tooltip))
	}
	if m.last.Lines > 0 {
		source := "git"
		if m.last.CacheHit {
			source = "cache"
		}
		bar += dimStyle.Render(fmt.Sprintf("  %d lines · %s", m.last.Lines, source))
	}
	return bar
}
