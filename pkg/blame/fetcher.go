package blame

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const instrumentationName = "lineblame/blame"

// Fetcher runs the availability checks and the blame query for a file.
type Fetcher struct {
	runner   Runner
	location *time.Location
	timeout  time.Duration
	logger   *slog.Logger
	tracer   trace.Tracer

	invocations metric.Int64Counter
	group       singleflight.Group
}

// FetcherOption defines a functional configuration override.
type FetcherOption func(*Fetcher)

// WithLocation sets the zone used to render author dates.
func WithLocation(loc *time.Location) FetcherOption {
	return func(f *Fetcher) {
		if loc != nil {
			f.location = loc
		}
	}
}

// WithTimeout bounds each fetch. Zero means no limit.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher builds a Fetcher on top of r.
func NewFetcher(r Runner, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		runner:   r,
		location: time.UTC,
		logger:   slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(f)
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"lineblame.git.invocations",
		metric.WithDescription("git subprocesses started"),
	)
	if err != nil {
		f.logger.Warn("Metric registration failed", "error", err)
	}
	f.invocations = counter

	return f
}

// Fetch returns the attribution for path. Concurrent calls for the same
// path share one in-flight query and all receive its result. The shared
// query outlives any single caller's cancellation and is bounded only by
// the configured timeout; a cancelled caller returns early with its
// context's error.
func (f *Fetcher) Fetch(ctx context.Context, path string) (Set, error) {
	ch := f.group.DoChan(path, func() (interface{}, error) {
		return f.fetch(context.WithoutCancel(ctx), path)
	})

	select {
	case res := <-ch:
		if res.Shared {
			f.logger.Debug("Joined in-flight blame", "path", path)
		}
		set, _ := res.Val.(Set)
		return set, res.Err
	case <-ctx.Done():
		return nil, &FetchError{Kind: KindQueryFailed, Path: path, Err: ctx.Err()}
	}
}

func (f *Fetcher) fetch(ctx context.Context, path string) (Set, error) {
	ctx, span := f.tracer.Start(ctx, "blame.Fetch", trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	// 1. Target exists
	if err := CheckFile(path); err != nil {
		return nil, f.fail(span, KindFileMissing, path, err)
	}

	// 2. Tool installed
	f.count(ctx, "version")
	if err := CheckTool(ctx, f.runner); err != nil {
		return nil, f.fail(span, KindToolNotInstalled, path, err)
	}

	// 3. Inside a repository
	f.count(ctx, "rev-parse")
	root, err := CheckRepository(ctx, f.runner, path)
	if err != nil {
		return nil, f.fail(span, KindNotARepository, path, err)
	}

	// 4. Query and parse
	f.count(ctx, "blame")
	start := time.Now()
	raw, err := Query(ctx, f.runner, path)
	if err != nil {
		return nil, f.fail(span, KindQueryFailed, path, err)
	}
	set := ParsePorcelain(raw, f.location)

	span.SetAttributes(attribute.Int("blame.lines", len(set)))
	f.logger.Debug("Blame fetched", "path", path, "repo", root, "lines", len(set), "duration", time.Since(start))
	return set, nil
}

func (f *Fetcher) fail(span trace.Span, kind Kind, path string, err error) error {
	fe := &FetchError{Kind: kind, Path: path, Err: err}
	span.RecordError(fe)
	span.SetStatus(codes.Error, kind.String())
	return fe
}

func (f *Fetcher) count(ctx context.Context, op string) {
	if f.invocations == nil {
		return
	}
	f.invocations.Add(ctx, 1, metric.WithAttributes(attribute.String("git.op", op)))
}
