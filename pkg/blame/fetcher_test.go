package blame_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/DrSkyle/lineblame/pkg/blame/blametest"
	"github.com/DrSkyle/lineblame/pkg/telemetry/telemetrytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

const porcelain = `cccccccccccccccccccccccccccccccccccccccc 1 1 2
author Alice
author-time 1700000000
summary Fix bug
filename a.go
	package a
cccccccccccccccccccccccccccccccccccccccc 2 2
author Alice
author-time 1700000000
summary Fix bug
filename a.go
	func A() {}
`

func sourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\nfunc A() {}\n"), 0o644))
	return path
}

func TestFetch_Success(t *testing.T) {
	runner := blametest.NewRunner(porcelain)
	path := sourceFile(t)

	set, err := blame.NewFetcher(runner).Fetch(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, set, 2)
	assert.Equal(t, 1, set[0].Line)
	assert.Equal(t, 2, set[1].Line)
	assert.Equal(t, "Alice", set[1].Author)
	assert.Equal(t, "2023-11-14", set[1].Date)

	calls := runner.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "--version", calls[0].Args[0])
	assert.Equal(t, filepath.Dir(path), calls[1].Dir)
	assert.Equal(t, []string{"blame", "--line-porcelain", "--", "a.go"}, calls[2].Args)
	assert.Equal(t, filepath.Dir(path), calls[2].Dir)
}

func TestFetch_ChecksRunInOrder(t *testing.T) {
	tests := []struct {
		name      string
		failOp    string
		kind      blame.Kind
		wantCalls int
	}{
		{name: "tool missing", failOp: "--version", kind: blame.KindToolNotInstalled, wantCalls: 1},
		{name: "not a repository", failOp: "rev-parse", kind: blame.KindNotARepository, wantCalls: 2},
		{name: "query failed", failOp: "blame", kind: blame.KindQueryFailed, wantCalls: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runner := blametest.NewRunner(porcelain)
			runner.Fail(tc.failOp, "fatal: "+tc.name)

			set, err := blame.NewFetcher(runner).Fetch(context.Background(), sourceFile(t))

			assert.Empty(t, set)
			assert.Equal(t, tc.kind, blame.KindOf(err))
			assert.Len(t, runner.Calls(), tc.wantCalls)

			var fe *blame.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "fatal: "+tc.name, fe.Detail())
		})
	}
}

func TestFetch_CoalescesConcurrentCalls(t *testing.T) {
	runner := blametest.NewRunner(porcelain)
	runner.Gate = make(chan struct{})
	fetcher := blame.NewFetcher(runner)
	path := sourceFile(t)

	const callers = 8
	results := make([]blame.Set, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := fetcher.Fetch(context.Background(), path)
			assert.NoError(t, err)
			results[i] = set
		}(i)
	}

	require.Eventually(t, func() bool { return runner.Count("blame") == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(runner.Gate)
	wg.Wait()

	assert.Equal(t, 1, runner.Count("blame"))
	for _, set := range results {
		assert.Len(t, set, 2)
	}
}

func TestFetch_CancelledCallerLeavesSharedQueryRunning(t *testing.T) {
	runner := blametest.NewRunner(porcelain)
	runner.Gate = make(chan struct{})
	fetcher := blame.NewFetcher(runner)
	path := sourceFile(t)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := fetcher.Fetch(ctx, path)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return runner.Count("blame") == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan blame.Set, 1)
	go func() {
		set, err := fetcher.Fetch(context.Background(), path)
		assert.NoError(t, err)
		second <- set
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	err := <-firstErr
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, blame.KindQueryFailed, blame.KindOf(err))

	close(runner.Gate)
	assert.Len(t, <-second, 2)
	assert.Equal(t, 1, runner.Count("blame"))
}

func TestFetch_CountsInvocations(t *testing.T) {
	metrics := telemetrytest.Install(t)
	runner := blametest.NewRunner(porcelain)

	_, err := blame.NewFetcher(runner).Fetch(context.Background(), sourceFile(t))
	require.NoError(t, err)

	assert.Equal(t, int64(3), metrics.Sum("lineblame.git.invocations"))
	assert.Equal(t, int64(1), metrics.Sum("lineblame.git.invocations", attribute.String("git.op", "blame")))
}

func TestFetch_Timeout(t *testing.T) {
	runner := blametest.NewRunner(porcelain)
	runner.Gate = make(chan struct{})

	_, err := blame.NewFetcher(runner, blame.WithTimeout(20*time.Millisecond)).Fetch(context.Background(), sourceFile(t))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, blame.KindQueryFailed, blame.KindOf(err))
}

func TestFetch_EmptyFile(t *testing.T) {
	runner := blametest.NewRunner("")

	set, err := blame.NewFetcher(runner).Fetch(context.Background(), sourceFile(t))

	assert.NoError(t, err)
	assert.Empty(t, set)
}
