package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/DrSkyle/lineblame/pkg/annotate"
	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/DrSkyle/lineblame/pkg/cache"
	"github.com/DrSkyle/lineblame/pkg/config"
	"github.com/DrSkyle/lineblame/pkg/editor"
	"github.com/DrSkyle/lineblame/pkg/telemetry"
	"github.com/DrSkyle/lineblame/pkg/version"
	"github.com/DrSkyle/lineblame/pkg/watch"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrClosed is returned by operations on a closed Session.
var ErrClosed = errors.New("session closed")

// EventKind enumerates the editor events a Session reacts to.
type EventKind int

const (
	SelectionChanged EventKind = iota
	ActiveEditorChanged
	DocumentChanged
	DocumentSaved
)

func (k EventKind) String() string {
	switch k {
	case SelectionChanged:
		return "selection_changed"
	case ActiveEditorChanged:
		return "active_editor_changed"
	case DocumentChanged:
		return "document_changed"
	case DocumentSaved:
		return "document_saved"
	default:
		return "unknown"
	}
}

// Event is one notification from the host editor. Path is only consulted
// for DocumentSaved; when empty the active document is assumed.
type Event struct {
	Kind EventKind
	Path string
}

// Session is the runtime core: one toggle, one cache and one fetcher shared
// by every editor of a host.
type Session struct {
	Logger *slog.Logger
	Tracer trace.Tracer

	Cache      *cache.BlameCache
	Shown      *cache.ShownErrors
	Fetcher    *blame.Fetcher
	Reconciler *annotate.Reconciler
	Controller *annotate.Controller

	// Immutable config.
	config config.Config
	runner blame.Runner

	mu       sync.Mutex
	watcher  *watch.Watcher
	shutdown func(context.Context) error
	closed   bool
}

// Option defines a functional configuration override.
type Option func(*Session)

// New builds a Session. Configuration errors (an invalid exclude
// expression, an unknown time zone) are returned.
func New(ctx context.Context, opts ...Option) (*Session, error) {
	s := &Session{
		Logger: NewLogger(os.Stderr, true, false),
		Tracer: telemetry.Tracer("lineblame/engine"),
		config: config.Default(),
	}

	// Apply options.
	for _, opt := range opts {
		opt(s)
	}

	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	loc, err := s.config.Location()
	if err != nil {
		return nil, err
	}

	// Initialize telemetry.
	if !s.config.NoTelemetry {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, s.config.OTelEndpoint)
		if err != nil {
			s.Logger.Warn("Telemetry failed", "error", err)
		} else {
			s.shutdown = shutdown
		}
	}

	if s.runner == nil {
		s.runner = blame.ExecRunner{Binary: s.config.GitBinary}
	}

	s.Cache, err = cache.New(s.config.CacheSize)
	if err != nil {
		return nil, err
	}
	filter, err := annotate.NewFilter(s.config.Exclude, s.Logger)
	if err != nil {
		return nil, err
	}

	s.Shown = cache.NewShownErrors()
	s.Fetcher = blame.NewFetcher(s.runner,
		blame.WithLocation(loc),
		blame.WithTimeout(s.config.Timeout),
		blame.WithLogger(s.Logger),
	)
	toggle := annotate.NewToggle(s.config.Enabled)
	s.Reconciler = annotate.NewReconciler(toggle, s.Cache, s.Fetcher,
		annotate.NewReporter(s.Shown, s.Logger),
		annotate.WithFilter(filter),
		annotate.WithLogger(s.Logger),
	)
	s.Controller = annotate.NewController(toggle, s.Reconciler)

	s.Logger.Debug("Session ready",
		"enabled", s.config.Enabled,
		"cache_size", s.config.CacheSize,
		"timezone", loc.String(),
		"exclude", s.config.Exclude,
	)
	return s, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithConfig sets raw config.
func WithConfig(cfg config.Config) Option {
	return func(s *Session) {
		s.config = cfg
	}
}

// WithRunner replaces the git subprocess runner.
func WithRunner(r blame.Runner) Option {
	return func(s *Session) {
		s.runner = r
	}
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.Config {
	return s.config
}

// Start shows the initial toggle state on h.
func (s *Session) Start(h editor.Host) {
	s.Controller.ShowStatus(h)
}

// Handle reacts to one editor event and returns the reconcile outcome.
func (s *Session) Handle(ctx context.Context, h editor.Host, ev Event) (res annotate.Result) {
	ctx, span := s.Tracer.Start(ctx, "Session.Handle", trace.WithAttributes(attribute.String("event", ev.Kind.String())))
	defer span.End()

	// Crash safety.
	defer s.recoverPanic(ctx)

	if ev.Kind == DocumentSaved {
		s.invalidate(s.eventPath(h, ev))
	}

	res = s.Reconciler.Reconcile(ctx, h)
	if res.Path != "" {
		s.track(res.Path)
	}
	return res
}

// Toggle runs the "Toggle Git Blame" command against h.
func (s *Session) Toggle(ctx context.Context, h editor.Host) (on bool, res annotate.Result) {
	ctx, span := s.Tracer.Start(ctx, "Session.Toggle")
	defer span.End()

	defer s.recoverPanic(ctx)

	on, res = s.Controller.Toggle(ctx, h)
	span.SetAttributes(attribute.Bool("blame.enabled", on))
	s.Logger.Info("Blame toggled", "enabled", on)
	if res.Path != "" {
		s.track(res.Path)
	}
	return on, res
}

// Watch starts following annotated files on disk. When one is written its
// cache entry is dropped and onChange, if set, receives the path.
func (s *Session) Watch(onChange func(path string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.watcher != nil {
		return nil
	}

	w, err := watch.New(func(path string) {
		s.invalidate(path)
		if onChange != nil {
			onChange(path)
		}
	}, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	s.watcher = w

	for _, path := range s.Cache.Paths() {
		if err := w.Track(path); err != nil {
			s.Logger.Warn("Cannot watch file", "path", path, "error", err)
		}
	}
	return nil
}

// Close stops the watcher and flushes telemetry.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
		s.watcher = nil
	}
	if s.shutdown != nil {
		errs = append(errs, s.shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (s *Session) eventPath(h editor.Host, ev Event) string {
	if ev.Path != "" {
		return ev.Path
	}
	if ed, ok := h.ActiveEditor(); ok {
		return ed.Document().Path
	}
	return ""
}

func (s *Session) invalidate(path string) {
	if path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if s.Cache.Invalidate(path) {
		s.Logger.Debug("Blame invalidated", "path", path)
	}
}

func (s *Session) track(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		return
	}
	if err := s.watcher.Track(path); err != nil {
		s.Logger.Warn("Cannot watch file", "path", path, "error", err)
	}
}

// recoverPanic keeps a misbehaving host callback from taking the editor down.
func (s *Session) recoverPanic(ctx context.Context) {
	if r := recover(); r != nil {
		_, span := s.Tracer.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		s.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))
	}
}

// NewLogger builds the session logger. Sensitive attributes are redacted.
func NewLogger(w io.Writer, json, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSensitiveData,
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// redactSensitiveData scrubs sensitive keys from logs.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"password": true, "token": true, "secret": true, "api_key": true,
		"auth_token": true, "credential": true, "ssh_key": true,
		"author_mail": true, "email": true, "otel_headers": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}
