package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DrSkyle/lineblame/pkg/blame/blametest"
	"github.com/DrSkyle/lineblame/pkg/editor"
	"github.com/DrSkyle/lineblame/pkg/engine"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a fake git and returns stdout and
// stderr.
func execute(t *testing.T, runner *blametest.Runner, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	sessionOptions = []engine.Option{engine.WithRunner(runner)}
	t.Cleanup(func() { sessionOptions = nil })

	require.NoError(t, linesCmd.Flags().Lookup("line").Value.(pflag.SliceValue).Replace(nil))
	linesFormat = "text"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--no-telemetry"))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func sourceFile(t *testing.T, lines int) string {
	t.Helper()
	var content strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&content, "line %d\n", i)
	}
	path := filepath.Join(t.TempDir(), "a.go")
	require.NoError(t, os.WriteFile(path, []byte(content.String()), 0o644))
	return path
}

func TestLines_JSON(t *testing.T) {
	path := sourceFile(t, 4)
	stdout, _, err := execute(t, blametest.NewRunner(blametest.Porcelain(4)), "lines", path, "-l", "2-3", "--format", "json")
	require.NoError(t, err)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{
		"path": %q,
		"lines": 4,
		"items": [
			{"line": 2, "hash": "%040x", "author": "Author 2", "date": "2023-11-16", "message": "Change 2", "inline": "Author 2 • 2023-11-16"},
			{"line": 3, "hash": "%040x", "author": "Author 3", "date": "2023-11-17", "message": "Change 3", "inline": "Author 3 • 2023-11-17"}
		]
	}`, abs, 2, 3), stdout)
}

func TestLines_WholeFileText(t *testing.T) {
	path := sourceFile(t, 3)
	stdout, _, err := execute(t, blametest.NewRunner(blametest.Porcelain(3)), "lines", path)
	require.NoError(t, err)

	for _, want := range []string{"Author 1", "Author 2", "Author 3", "Change 3"} {
		assert.Contains(t, stdout, want)
	}
}

func TestLines_RangePastEndOfFile(t *testing.T) {
	path := sourceFile(t, 3)
	stdout, _, err := execute(t, blametest.NewRunner(blametest.Porcelain(3)), "lines", path, "-l", "2-2000000000", "--format", "csv")
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "Line,Hash,Author,Date,Message", rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "2,"))
	assert.True(t, strings.HasPrefix(rows[2], "3,"))
}

func TestSelection_ClipsToFile(t *testing.T) {
	path := sourceFile(t, 3)

	ranges, err := selection(path, []string{"1-2000000000", "7"})
	require.NoError(t, err)
	assert.Equal(t, []editor.Range{editor.LineRange(0, 2)}, ranges)

	ranges, err = selection(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []editor.Range{editor.LineRange(0, 2)}, ranges)
}

func TestLines_NotARepository(t *testing.T) {
	path := sourceFile(t, 3)
	runner := blametest.NewRunner("")
	runner.Fail("rev-parse", "fatal: not a git repository (or any of the parent directories): .git")

	stdout, stderr, err := execute(t, runner, "lines", path, "-l", "1")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "[warning] a.go is not inside a git repository.")
}

func TestLines_BadArguments(t *testing.T) {
	path := sourceFile(t, 3)
	runner := blametest.NewRunner(blametest.Porcelain(3))

	_, _, err := execute(t, runner, "lines", path, "--format", "xml")
	assert.Error(t, err)

	_, _, err = execute(t, runner, "lines", path, "-l", "0")
	assert.Error(t, err)

	_, _, err = execute(t, runner, "lines", filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)

	assert.Empty(t, runner.Calls())
}

func TestCompletion_Bash(t *testing.T) {
	stdout, _, err := execute(t, blametest.NewRunner(""), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "complete -F _lineblame_completion lineblame")
}
