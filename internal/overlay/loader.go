// Package overlay acquires the resources the side drawer needs, once per
// shell, in the background.
package overlay

import (
	"context"
	"log/slog"
	"sync"
)

// Resource identifies a lazily acquired bundle.
type Resource string

const (
	// Drawer is the side drawer itself.
	Drawer Resource = "side-drawer"
	// Transition is the enter/exit animation wrapped around the drawer.
	Transition Resource = "transition"
)

// All lists the resources a shell acquires after mounting.
var All = []Resource{Drawer, Transition}

// Asset is one file of a bundle.
type Asset struct {
	Path        string
	ContentType string
	Body        []byte
}

// Bundle is an acquired resource.
type Bundle struct {
	ID     Resource
	Assets []Asset
}

// Fetcher acquires a bundle.
type Fetcher interface {
	Fetch(ctx context.Context, id Resource) (Bundle, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context, id Resource) (Bundle, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, id Resource) (Bundle, error) {
	return f(ctx, id)
}

// Readiness reports which resources have been acquired.
type Readiness struct {
	Drawer     bool
	Transition bool
}

type entry struct {
	done   chan struct{}
	bundle Bundle
	ready  bool
}

// Loader is a load-once cache keyed by resource. Acquisition is
// fire-and-forget: Start never blocks, and a resource that fails to load
// stays pending for the life of the loader.
type Loader struct {
	fetch   Fetcher
	logger  *slog.Logger
	onReady func(Resource)

	mu      sync.Mutex
	entries map[Resource]*entry
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithOnReady registers a hook called once for every resource that
// resolves. It runs on the acquiring goroutine.
func WithOnReady(fn func(Resource)) Option {
	return func(l *Loader) { l.onReady = fn }
}

// NewLoader creates a loader backed by fetch.
func NewLoader(fetch Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetch:   fetch,
		logger:  slog.New(slog.DiscardHandler),
		entries: make(map[Resource]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins acquiring ids that have not been requested before.
func (l *Loader) Start(ctx context.Context, ids ...Resource) {
	for _, id := range ids {
		if !l.claim(id) {
			continue
		}
		go l.acquire(ctx, id)
	}
}

// claim creates the entry for id and reports whether the caller should
// acquire it.
func (l *Loader) claim(id Resource) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[id]; ok {
		return false
	}
	l.entries[id] = &entry{done: make(chan struct{})}
	return true
}

func (l *Loader) acquire(ctx context.Context, id Resource) {
	bundle, err := l.fetch.Fetch(ctx, id)
	if err != nil {
		l.logger.Warn("overlay resource unavailable", "resource", id, "error", err)
		return
	}

	l.mu.Lock()
	e := l.entries[id]
	e.bundle = bundle
	e.ready = true
	close(e.done)
	l.mu.Unlock()

	l.logger.Debug("overlay resource ready", "resource", id, "assets", len(bundle.Assets))
	if l.onReady != nil {
		l.onReady(id)
	}
}

// Ready reports whether id has been acquired.
func (l *Loader) Ready(id Resource) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[id]
	return ok && e.ready
}

// Bundle returns the acquired bundle for id.
func (l *Loader) Bundle(id Resource) (Bundle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[id]
	if !ok || !e.ready {
		return Bundle{}, false
	}
	return e.bundle, true
}

// Readiness snapshots the drawer and transition states.
func (l *Loader) Readiness() Readiness {
	return Readiness{
		Drawer:     l.Ready(Drawer),
		Transition: l.Ready(Transition),
	}
}

// Done returns a channel closed once id is acquired. It returns nil, which
// blocks forever, when id was never started.
func (l *Loader) Done(id Resource) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		return e.done
	}
	return nil
}
