// Package navigation serves the hash-driven shell over datastar.
//
// The browser owns the address bar. It posts its fragment on load and on
// every hashchange; the server runs one navigation loop per session and
// patches the #shell element with the derived view.
package navigation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/shell"
	"github.com/leapstack-labs/cubedash/internal/ui/components"
	"github.com/leapstack-labs/cubedash/internal/ui/notifier"
)

const (
	// SessionName is the cookie holding the session id.
	SessionName = "cubedash"
	sessionKey  = "id"
)

// errNotMounted is reported when a request arrives before /nav/mount.
var errNotMounted = errors.New("shell not mounted")

// Handlers provides HTTP handlers for the navigation shell.
type Handlers struct {
	registry     *Registry
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	options      shell.Options
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *Registry, sessionStore sessions.Store, notify *notifier.Notifier, opts shell.Options, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		registry:     registry,
		sessionStore: sessionStore,
		notifier:     notify,
		options:      opts,
		logger:       logger,
		isDev:        isDev,
	}
}

// Page renders the document. The shell is patched in by Mount.
//
// The session cookie is issued here: the page opens /updates and posts
// /nav/mount at the same time, and both must carry the same id.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionID(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := components.Page("Dashboard", h.isDev).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Mount (re)initializes the session shell from the browser's fragment.
func (h *Handlers) Mount(w http.ResponseWriter, r *http.Request) {
	var signals components.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.sessionID(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sess, err := h.registry.Mount(id, signals.Hash)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	h.send(r.Context(), sse, sess, nav.Snapshot{})
}

// Hash applies a hashchange reported by the browser.
func (h *Handlers) Hash(w http.ResponseWriter, r *http.Request) {
	var signals components.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Observe(signals.Hash)
	sse := datastar.NewSSE(w, r)
	h.send(r.Context(), sse, sess, nav.HashChange{Fragment: signals.Hash})
}

// Select picks a data source from the home list or the drawer. The cube
// view that mounts in response commits its state to the address bar.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	var signals components.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	res, err := sess.Loop.Send(ctx, nav.SelectDataSource{Name: signals.Source})
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if !res.Applied {
		_ = sse.ConsoleError(errors.New("unknown data source: " + signals.Source))
		return
	}

	body, ok := h.derive(sess, res.State).Body.(shell.CubeBody)
	if !ok {
		h.render(sse, sess, res.State)
		return
	}
	h.commit(ctx, sse, sess, body.Suffix())
}

// Commit writes the cube view state to the address bar.
func (h *Handlers) Commit(w http.ResponseWriter, r *http.Request) {
	var signals components.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	h.commit(r.Context(), sse, sess, signals.Suffix)
}

// OpenDrawer shows the side drawer.
func (h *Handlers) OpenDrawer(w http.ResponseWriter, r *http.Request) {
	h.setDrawer(w, r, true)
}

// CloseDrawer hides the side drawer.
func (h *Handlers) CloseDrawer(w http.ResponseWriter, r *http.Request) {
	h.setDrawer(w, r, false)
}

func (h *Handlers) setDrawer(w http.ResponseWriter, r *http.Request, open bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)
	h.send(r.Context(), sse, sess, nav.SetDrawer{Open: open})
}

// Updates is the long-lived SSE endpoint re-rendering the shell whenever the
// session is pinged, such as when an overlay resource finishes loading.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	id, ok := h.existingSessionID(r)
	if !ok {
		http.Error(w, errNotMounted.Error(), http.StatusConflict)
		return
	}

	updates := h.notifier.Subscribe(id)
	defer h.notifier.Unsubscribe(id, updates)

	sse := datastar.NewSSE(w, r)
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			sess, ok := h.registry.Get(id)
			if !ok {
				continue
			}
			h.send(ctx, sse, sess, nav.Snapshot{})
		}
	}
}

func (h *Handlers) commit(ctx context.Context, sse *datastar.ServerSentEventGenerator, sess *Session, suffix string) {
	res, err := sess.Loop.Send(ctx, nav.Commit{Suffix: suffix})
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	h.render(sse, sess, res.State)
	if err := sse.ExecuteScript(components.SetHashScript(res.Written)); err != nil {
		h.logger.Debug("write hash script failed", "session", sess.ID, "error", err)
	}
}

// send processes ev on the session loop and patches the resulting shell.
func (h *Handlers) send(ctx context.Context, sse *datastar.ServerSentEventGenerator, sess *Session, ev nav.Event) {
	res, err := sess.Loop.Send(ctx, ev)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	h.render(sse, sess, res.State)
}

func (h *Handlers) render(sse *datastar.ServerSentEventGenerator, sess *Session, st nav.State) {
	view := h.derive(sess, st)
	if err := sse.PatchElementTempl(components.Shell(view, sess.Bundles())); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// derive builds the view. Actions reach the server as requests, so the
// view callbacks are left as no-ops.
func (h *Handlers) derive(sess *Session, st nav.State) shell.View {
	return shell.Derive(st, sess.Loader.Readiness(), h.options, shell.Callbacks{})
}

// session returns the mounted shell of the request, writing an error
// response when there is none.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, ok := h.existingSessionID(r)
	if ok {
		if sess, ok := h.registry.Get(id); ok {
			return sess, true
		}
	}
	http.Error(w, errNotMounted.Error(), http.StatusConflict)
	return nil, false
}

func (h *Handlers) existingSessionID(r *http.Request) (string, bool) {
	sess, err := h.sessionStore.Get(r, SessionName)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[sessionKey].(string)
	return id, ok && id != ""
}

// sessionID returns the request's session id, issuing a new one when the
// cookie is missing. It must run before any SSE output.
func (h *Handlers) sessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := h.existingSessionID(r); ok {
		return id, nil
	}
	// A cookie that fails to decode still yields a fresh session.
	sess, _ := h.sessionStore.Get(r, SessionName)
	if sess == nil {
		sess = sessions.NewSession(h.sessionStore, SessionName)
	}
	id := uuid.NewString()
	sess.Values[sessionKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
