package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"webdesk/pkg/apps/archive"
	"webdesk/pkg/apps/calculator"
	"webdesk/pkg/apps/filemanager"
	"webdesk/pkg/apps/texteditor"
	"webdesk/pkg/desktop"
	"webdesk/pkg/logging"
	"webdesk/pkg/metrics"
	"webdesk/pkg/router"
	"webdesk/pkg/server"
	"webdesk/pkg/terminal"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// Prefix is the root of every versioned endpoint.
const Prefix = "/api/v1"

// maxBodyBytes bounds request bodies; file contents are the largest.
const maxBodyBytes = 4 << 20

// ErrUnknownAction is returned for an action the window's application
// does not support.
var ErrUnknownAction = errors.New("api: unknown action")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// API serves desktop sessions over HTTP.
type API struct {
	registry *desktop.Registry
	logger   *zap.Logger
}

// New creates the API over a session registry. A nil logger logs nowhere.
func New(registry *desktop.Registry, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{registry: registry, logger: logger}
}

// NewRouter returns a router with the standard middleware, the probes,
// /metrics and every API route.
func NewRouter(registry *desktop.Registry, logger *zap.Logger) *router.Router {
	r := router.New()
	r.Use(
		router.RecoveryMiddleware(),
		router.LoggingMiddleware(),
		router.MetricsMiddleware(),
		router.CORSMiddleware(),
	)
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, http.StatusNotFound, "not found")
	})
	r.SetNotFoundHandler(notFound)
	r.SetMethodNotAllowedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))

	r.GET("/health", server.HealthHandler())
	r.GET("/ready", server.ReadyHandler(nil))
	r.GET("/metrics", metrics.Handler())

	New(registry, logger).Register(r)
	return r
}

// Register adds the API routes to r.
func (a *API) Register(r *router.Router) {
	h := func(fn http.HandlerFunc) http.Handler { return fn }
	s := Prefix + "/sessions/:sid"

	r.GET(Prefix+"/apps", h(a.handleApps))

	r.POST(Prefix+"/sessions", h(a.handleCreateSession))
	r.GET(s, h(a.handleGetSession))
	r.DELETE(s, h(a.handleDeleteSession))

	r.GET(s+"/windows", h(a.handleListWindows))
	r.POST(s+"/windows", h(a.handleLaunch))
	r.GET(s+"/windows/:wid", h(a.handleGetWindow))
	r.POST(s+"/windows/:wid/focus", h(a.handleFocus))
	r.POST(s+"/windows/:wid/minimize", h(a.handleMinimize))
	r.POST(s+"/windows/:wid/maximize", h(a.handleMaximize))
	r.POST(s+"/windows/:wid/close", h(a.handleClose))
	r.POST(s+"/windows/:wid/position", h(a.handlePosition))
	r.POST(s+"/windows/:wid/size", h(a.handleSize))
	r.POST(s+"/windows/:wid/action", h(a.handleAction))

	r.GET(s+"/fs", h(a.handleResolve))
	r.DELETE(s+"/fs", h(a.handleDelete))
	r.POST(s+"/fs/files", h(a.handleCreateFile))
	r.PUT(s+"/fs/files", h(a.handleUpdateFile))
	r.POST(s+"/fs/directories", h(a.handleCreateDirectory))
	r.GET(s+"/fs/events", h(a.handleEvents))
	r.GET(s+"/fs/raw/*", h(a.handleRaw))

	r.POST(s+"/terminal/:wid/exec", h(a.handleExec))
	r.POST(s+"/terminal/:wid/complete", h(a.handleComplete))
}

// session looks up the :sid session and marks it active. It writes the
// error response itself when the session does not exist.
func (a *API) session(w http.ResponseWriter, r *http.Request) (*desktop.Session, bool) {
	sess, err := a.registry.Get(router.Param(r, "sid"))
	if err != nil {
		a.fail(w, r, err)
		return nil, false
	}
	return sess, true
}

// fail maps err to a status code and writes it.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error("request failed", zap.Error(err))
	}
	sendError(w, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, desktop.ErrSessionNotFound),
		errors.Is(err, wm.ErrWindowNotFound),
		errors.Is(err, vfs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, desktop.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, desktop.ErrNotTerminal),
		errors.Is(err, vfs.ErrIsDirectory),
		errors.Is(err, vfs.ErrNotDirectory),
		errors.Is(err, terminal.ErrNanoClosed),
		errors.Is(err, archive.ErrNoArchive),
		errors.Is(err, texteditor.ErrCancelled):
		return http.StatusConflict
	case errors.Is(err, desktop.ErrUnknownApp),
		errors.Is(err, vfs.ErrInvalidName),
		errors.Is(err, calculator.ErrUnknownKey),
		errors.Is(err, ErrUnknownAction),
		errors.Is(err, filemanager.ErrEmptyName),
		errors.Is(err, filemanager.ErrUnsupported),
		errors.Is(err, archive.ErrEmptyName),
		errors.Is(err, archive.ErrNoSelection),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func sendJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, code int, message string) {
	sendJSON(w, code, ErrorResponse{Error: message, Code: code})
}

// AppsResponse lists the launchers and menus of the desktop shell.
type AppsResponse struct {
	Icons       []desktop.Launcher    `json:"icons"`
	StartMenu   []desktop.MenuSection `json:"start_menu"`
	ContextMenu []desktop.MenuItem    `json:"context_menu"`
}

func (a *API) handleApps(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, AppsResponse{
		Icons:       desktop.Icons(),
		StartMenu:   desktop.StartMenu(),
		ContextMenu: desktop.ContextMenu(),
	})
}
