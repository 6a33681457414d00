package annotate

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/DrSkyle/lineblame/pkg/cache"
	"github.com/DrSkyle/lineblame/pkg/editor"
	"github.com/DrSkyle/lineblame/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Fetcher produces the attribution for one file.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (blame.Set, error)
}

// Result describes one reconcile pass.
type Result struct {
	Path        string
	Decorations []editor.Decoration
	Records     blame.Set // records that received a decoration
	Lines       int       // size of the attribution set for Path
	CacheHit    bool
}

// Reconciler recomputes the visible annotations from the current selection.
type Reconciler struct {
	toggle   *Toggle
	cache    *cache.BlameCache
	fetcher  Fetcher
	reporter *Reporter
	filter   *Filter
	logger   *slog.Logger
	tracer   trace.Tracer
	lookups  metric.Int64Counter
}

// Option defines a functional configuration override.
type Option func(*Reconciler)

// WithFilter hides records matching f.
func WithFilter(f *Filter) Option {
	return func(r *Reconciler) {
		r.filter = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewReconciler(toggle *Toggle, c *cache.BlameCache, f Fetcher, rep *Reporter, opts ...Option) *Reconciler {
	r := &Reconciler{
		toggle:   toggle,
		cache:    c,
		fetcher:  f,
		reporter: rep,
		logger:   slog.Default(),
		tracer:   otel.Tracer("lineblame/annotate"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.reporter == nil {
		r.reporter = NewReporter(nil, r.logger)
	}

	counter, err := telemetry.Meter("lineblame/annotate").Int64Counter(
		"lineblame.cache.lookups",
		metric.WithDescription("blame cache lookups by outcome"),
	)
	if err != nil {
		r.logger.Warn("Metric registration failed", "error", err)
	}
	r.lookups = counter
	return r
}

// Reconcile brings the active editor's decorations in line with its
// selection. It never fails; fetch errors are reported and leave the
// editor without annotations.
func (r *Reconciler) Reconcile(ctx context.Context, h editor.Host) Result {
	ed, ok := h.ActiveEditor()
	if !ok {
		return Result{}
	}
	if !r.toggle.On() {
		ed.SetDecorations(nil)
		return Result{}
	}

	ctx, span := r.tracer.Start(ctx, "annotate.Reconcile")
	defer span.End()

	// Stale annotations are cleared on every pass.
	ed.SetDecorations(nil)

	sel := editor.NewSelection(ed.Selections())
	doc := ed.Document()
	if sel.Empty() || !doc.Backed() {
		return Result{}
	}

	path := doc.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	span.SetAttributes(attribute.String("file.path", path), attribute.Int("selection.ranges", len(sel)))

	set, hit := r.resolve(ctx, h, path)
	records := r.filter.Apply(Select(set, sel))
	decorations := Build(records)
	ed.SetDecorations(decorations)

	if len(set) > 0 {
		ShowToggleState(h.Status(), true)
	}

	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Int("decorations", len(decorations)))
	return Result{
		Path:        path,
		Decorations: decorations,
		Records:     records,
		Lines:       len(set),
		CacheHit:    hit,
	}
}

// resolve returns the cached set for path or fetches a fresh one. Only
// non-empty results are cached.
func (r *Reconciler) resolve(ctx context.Context, h editor.Host, path string) (blame.Set, bool) {
	if set, ok := r.cache.Get(path); ok {
		r.countLookup(ctx, true)
		return set, true
	}
	r.countLookup(ctx, false)

	set, err := r.fetcher.Fetch(ctx, path)
	if err != nil {
		r.reporter.Report(h, err)
		return nil, false
	}
	if len(set) > 0 {
		r.cache.Put(path, set)
	}
	return set, false
}

func (r *Reconciler) countLookup(ctx context.Context, hit bool) {
	if r.lookups == nil {
		return
	}
	r.lookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cache.hit", hit)))
}

// Clear removes every annotation from the active editor.
func (r *Reconciler) Clear(h editor.Host) {
	if ed, ok := h.ActiveEditor(); ok {
		ed.SetDecorations(nil)
	}
}
