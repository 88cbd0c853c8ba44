// Package ui serves the cubedash shell in the browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/overlay"
	"github.com/leapstack-labs/cubedash/internal/shell"
	"github.com/leapstack-labs/cubedash/internal/ui/features/navigation"
	"github.com/leapstack-labs/cubedash/internal/ui/notifier"
	"github.com/leapstack-labs/cubedash/internal/ui/resources"
	"github.com/leapstack-labs/cubedash/internal/ui/router"
)

// Server is the web shell server.
type Server struct {
	sessionStore *sessions.CookieStore
	registry     *navigation.Registry
	notifier     *notifier.Notifier
	reloader     *router.Reloader
	options      shell.Options
	port         int
	watch        bool
	dev          bool
	logger       *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Sources       []nav.DataSource
	Options       shell.Options
	Port          int
	Watch         bool
	Dev           bool
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) (*Server, error) {
	if len(cfg.Sources) == 0 {
		return nil, nav.ErrNoDataSources
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	notify := notifier.New()
	fetch := overlay.NewSharedFetcher(resources.BundleFetcher(resources.FS()))

	s := &Server{
		sessionStore: sessionStore,
		registry:     navigation.NewRegistry(cfg.Sources, fetch, notify, cfg.Logger),
		notifier:     notify,
		options:      cfg.Options,
		port:         cfg.Port,
		watch:        cfg.Watch,
		dev:          cfg.Dev,
		logger:       cfg.Logger,
	}
	if s.dev {
		s.reloader = router.NewReloader()
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	if s.dev {
		r.Use(middleware.Logger)
	}

	h := navigation.NewHandlers(s.registry, s.sessionStore, s.notifier, s.options, s.logger, s.dev)
	router.SetupRoutes(r, h, s.reloader)
	return r
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://%s", ln.Addr()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.reloader != nil {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		err := srv.Shutdown(shutdownCtx)
		s.registry.Close()
		return err
	})

	return eg.Wait()
}

// IsDev reports whether the server runs in development mode.
func (s *Server) IsDev() bool {
	return s.dev
}

// watchFiles reloads open pages when a static asset changes on disk.
func (s *Server) watchFiles(ctx context.Context) error {
	dir := resources.Dir()
	if dir == "" {
		s.logger.Warn("static assets are embedded, watch disabled")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		s.logger.Error("failed to watch static directory", "error", err)
		// Don't fail - continue without watching
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			switch filepath.Ext(event.Name) {
			case ".css", ".js", ".html":
			default:
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("static asset changed, reloading", "file", event.Name)
				s.reloader.Trigger()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
