package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/overlay"
	"github.com/leapstack-labs/cubedash/internal/ui/notifier"
)

// browserLocation mirrors the address bar of one browser tab. The browser
// reports every hashchange; commits are pushed back as a script, so SetHash
// only records the value.
type browserLocation struct {
	mu   sync.Mutex
	hash string
}

func (l *browserLocation) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

func (l *browserLocation) SetHash(fragment string) {
	l.mu.Lock()
	l.hash = nav.NormalizeHash(fragment)
	l.mu.Unlock()
}

// Session is one mounted shell: its navigation loop and overlay loader.
type Session struct {
	ID       string
	Loop     *nav.Loop
	Loader   *overlay.Loader
	location *browserLocation
	cancel   context.CancelFunc
}

// Observe records a hash the browser reported.
func (s *Session) Observe(hash string) {
	s.location.SetHash(hash)
}

// Bundles returns the overlay bundles acquired so far.
func (s *Session) Bundles() []overlay.Bundle {
	var bundles []overlay.Bundle
	for _, id := range overlay.All {
		if b, ok := s.Loader.Bundle(id); ok {
			bundles = append(bundles, b)
		}
	}
	return bundles
}

func (s *Session) close() {
	s.cancel()
	s.Loop.Close()
}

// Registry holds the mounted shells by session id.
type Registry struct {
	sources []nav.DataSource
	fetch   overlay.Fetcher
	notify  *notifier.Notifier
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose shells show sources and acquire
// overlay bundles through fetch.
func NewRegistry(sources []nav.DataSource, fetch overlay.Fetcher, notify *notifier.Notifier, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		sources:  sources,
		fetch:    fetch,
		notify:   notify,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Mount initializes the shell of session id from hash, replacing any shell
// already mounted for it, and starts loading the overlay.
func (r *Registry) Mount(id, hash string) (*Session, error) {
	loc := &browserLocation{hash: nav.NormalizeHash(hash)}
	logger := r.logger.With("session", id)

	ctrl, err := nav.NewController(r.sources, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("mount shell: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       id,
		Loop:     nav.NewLoop(ctx, ctrl),
		location: loc,
		cancel:   cancel,
	}
	s.Loader = overlay.NewLoader(r.fetch,
		overlay.WithLogger(logger),
		overlay.WithOnReady(func(overlay.Resource) { r.notify.Notify(id) }),
	)

	r.mu.Lock()
	prev := r.sessions[id]
	r.sessions[id] = s
	r.mu.Unlock()

	if prev != nil {
		prev.close()
	}
	s.Loader.Start(ctx, overlay.All...)

	logger.Debug("shell mounted", "hash", loc.Hash())
	return s, nil
}

// Get returns the shell mounted for id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of mounted shells.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close unmounts every shell.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
