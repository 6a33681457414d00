package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DrSkyle/lineblame/pkg/blame/blametest"
	"github.com/DrSkyle/lineblame/pkg/config"
	"github.com/DrSkyle/lineblame/pkg/engine"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, lines int) (Model, *blametest.Runner, string) {
	t.Helper()

	var content strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&content, "func line%d() {}\n", i)
	}
	path := filepath.Join(t.TempDir(), "a.go")
	require.NoError(t, os.WriteFile(path, []byte(content.String()), 0o644))

	cfg := config.Default()
	cfg.NoTelemetry = true
	runner := blametest.NewRunner(blametest.Porcelain(lines))
	s, err := engine.New(context.Background(),
		engine.WithConfig(cfg),
		engine.WithRunner(runner),
		engine.WithLogger(engine.NewLogger(io.Discard, true, false)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	screen, err := OpenScreen(path)
	require.NoError(t, err)
	return NewModel(context.Background(), s, screen), runner, path
}

// step feeds msg to the model and runs the resulting command to completion.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		if _, ok := out.(tea.QuitMsg); ok {
			return m
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	return step(t, m, m.Init()())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTUI_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		want     []string
		dontWant []string
	}{
		{
			name:     "cursor line annotated on open",
			want:     []string{"func line1() {}", "Author 1 • 2023-11-15", "Blame: on"},
			dontWant: []string{"Author 2"},
		},
		{
			name:     "moving the cursor moves the annotation",
			keys:     []tea.KeyMsg{keyRunes("j"), keyRunes("j")},
			want:     []string{"Author 3 • 2023-11-17"},
			dontWant: []string{"Author 1 •", "Author 2 •"},
		},
		{
			name: "extended selection annotates every line",
			keys: []tea.KeyMsg{keyRunes("J"), {Type: tea.KeyShiftDown}},
			want: []string{"Author 1 •", "Author 2 •", "Author 3 •"},
		},
		{
			name:     "toggle off clears annotations",
			keys:     []tea.KeyMsg{keyRunes("b")},
			want:     []string{"Blame: off"},
			dontWant: []string{"Author 1 •"},
		},
		{
			name: "toggle back on",
			keys: []tea.KeyMsg{keyRunes("b"), keyRunes("b")},
			want: []string{"Blame: on", "Author 1 • 2023-11-15"},
		},
		{
			name: "hover shows commit details",
			keys: []tea.KeyMsg{{Type: tea.KeyEnter}},
			want: []string{"Commit:", fmt.Sprintf("%040x", 1), "Message:", "Change 1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model, _, _ := newTestModel(t, 5)
			model = start(t, model)
			for _, k := range tc.keys {
				model = step(t, model, k)
			}
			view := model.View()

			for _, w := range tc.want {
				if !strings.Contains(view, w) {
					t.Errorf("[%s] FAIL: Expected view to contain '%s'.\nGot:\n%s", tc.name, w, view)
				}
			}
			for _, dw := range tc.dontWant {
				if strings.Contains(view, dw) {
					t.Errorf("[%s] FAIL: Expected view NOT to contain '%s'.\nGot:\n%s", tc.name, dw, view)
				}
			}
		})
	}
}

func TestTUI_CachesAcrossMoves(t *testing.T) {
	model, runner, _ := newTestModel(t, 5)
	model = start(t, model)
	model = step(t, model, keyRunes("j"))
	model = step(t, model, keyRunes("k"))

	assert.Equal(t, 1, runner.Count("blame"))
	assert.Contains(t, model.View(), "5 lines · cache")
}

func TestTUI_NotARepository(t *testing.T) {
	model, runner, _ := newTestModel(t, 3)
	runner.Fail("rev-parse", "fatal: not a git repository (or any of the parent directories): .git")

	model = start(t, model)
	view := model.View()

	assert.Contains(t, view, "Blame: not a repository")
	assert.Contains(t, view, "a.go is not inside a git repository.")
	assert.NotContains(t, view, "Author 1")
}

func TestTUI_FileChangedReloads(t *testing.T) {
	model, runner, path := newTestModel(t, 3)
	model = start(t, model)

	require.NoError(t, os.WriteFile(path, []byte("package rewritten\n"), 0o644))
	model = step(t, model, FileChangedMsg{Path: filepath.Join(t.TempDir(), "other.go")})
	assert.NotContains(t, model.View(), "package rewritten", "changes to other files are ignored")

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	model = step(t, model, FileChangedMsg{Path: abs})

	assert.Contains(t, model.View(), "package rewritten")
	assert.Equal(t, 1, runner.Count("blame"), "a plain change reuses the cache")

	model = step(t, model, keyRunes("r"))
	assert.Equal(t, 2, runner.Count("blame"), "reload drops the cached blame")
}

func TestTUI_Quit(t *testing.T) {
	model, _, _ := newTestModel(t, 1)

	next, cmd := model.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}

func TestScreen_Selections(t *testing.T) {
	s := NewScreen("a.go", []string{"a", "b", "c", "d"})

	s.Move(2, false)
	assert.Equal(t, 2, s.Cursor())
	s.Move(-1, true)
	s.Move(-1, true)

	sel := s.Selections()
	require.Len(t, sel, 1)
	assert.Equal(t, 2, sel[0].Start.Line)
	assert.Equal(t, 0, sel[0].End.Line)
	assert.True(t, s.selected(1))
	assert.False(t, s.selected(3))

	s.Move(10, false)
	assert.Equal(t, 3, s.Cursor(), "cursor stays on the last line")

	empty := NewScreen("b.go", nil)
	assert.Empty(t, empty.Selections())
}
