package blame

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner executes git with args in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// execCommand allows mocking exec.CommandContext for testing
var execCommand = exec.CommandContext

// ExecRunner shells out to the git binary.
type ExecRunner struct {
	// Binary defaults to "git" on PATH.
	Binary string
}

func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := execCommand(ctx, bin, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return out, nil
}

// CheckFile verifies the target path exists on disk.
func CheckFile(path string) error {
	_, err := os.Stat(path)
	return err
}

// CheckTool verifies git answers a version query.
func CheckTool(ctx context.Context, r Runner) error {
	_, err := r.Run(ctx, "", "--version")
	return err
}

// CheckRepository asks git for the repository root from the file's directory.
func CheckRepository(ctx context.Context, r Runner, path string) (string, error) {
	out, err := r.Run(ctx, filepath.Dir(path), "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Query runs the per-line porcelain blame for path from its directory and
// returns the output reordered for ParsePorcelain.
func Query(ctx context.Context, r Runner, path string) (string, error) {
	out, err := r.Run(ctx, filepath.Dir(path), "blame", "--line-porcelain", "--", filepath.Base(path))
	if err != nil {
		return "", err
	}
	return reorderBlocks(string(out)), nil
}
