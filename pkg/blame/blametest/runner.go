// Package blametest provides an in-process git Runner for tests.
package blametest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/DrSkyle/lineblame/pkg/blame"
)

// Response is a canned answer for one git operation.
type Response struct {
	Out    string
	Stderr string
	Err    error
}

// Runner answers git invocations from a table keyed by the first argument
// ("--version", "rev-parse", "blame") and records every call.
type Runner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Call

	// Gate, when set, blocks blame queries until it is closed.
	Gate chan struct{}
}

// Call records one invocation.
type Call struct {
	Dir  string
	Args []string
}

// NewRunner returns a Runner for a healthy repository whose blame output is out.
func NewRunner(out string) *Runner {
	return &Runner{
		responses: map[string]Response{
			"--version": {Out: "git version 2.43.0\n"},
			"rev-parse": {Out: "/repo\n"},
			"blame":     {Out: out},
		},
	}
}

// Set overrides the response for op.
func (r *Runner) Set(op string, resp Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[op] = resp
}

// Fail makes op exit non-zero with stderr.
func (r *Runner) Fail(op, stderr string) {
	r.Set(op, Response{Stderr: stderr, Err: errors.New("exit status 128")})
}

func (r *Runner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Dir: dir, Args: append([]string(nil), args...)})
	op := ""
	if len(args) > 0 {
		op = args[0]
	}
	resp, ok := r.responses[op]
	gate := r.Gate
	r.mu.Unlock()

	if op == "blame" && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if !ok {
		return nil, &blame.CommandError{Args: args, Err: errors.New("unexpected git invocation")}
	}
	if resp.Err != nil {
		return []byte(resp.Out), &blame.CommandError{Args: args, Stderr: resp.Stderr, Err: resp.Err}
	}
	return []byte(resp.Out), nil
}

// Calls returns a copy of the recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was invoked.
func (r *Runner) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if len(c.Args) > 0 && c.Args[0] == op {
			n++
		}
	}
	return n
}

// Porcelain mimics `git blame --line-porcelain` for a file of n lines. Line
// i is attributed to commit %040x(i) by "Author i", one day apart from
// 2023-11-14 UTC, with summary "Change i".
func Porcelain(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%040x %d %d 1\n", i, i, i)
		fmt.Fprintf(&b, "author Author %d\n", i)
		fmt.Fprintf(&b, "author-mail <a%d@example.com>\n", i)
		fmt.Fprintf(&b, "author-time %d\n", 1700000000+i*86400)
		fmt.Fprintf(&b, "summary Change %d\n", i)
		fmt.Fprintf(&b, "filename a.go\n\tline %d\n", i)
	}
	return b.String()
}
