package api

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"webdesk/pkg/logging"
	"webdesk/pkg/router"
	"webdesk/pkg/vfs"
)

// EntryRequest names an entry inside the directory Path. Content is only
// read for files.
type EntryRequest struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (a *API) handleResolve(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	node, found := sess.FS.Resolve(path)
	if !found {
		a.fail(w, r, fmt.Errorf("%s: %w", path, vfs.ErrNotFound))
		return
	}
	sendJSON(w, http.StatusOK, node)
}

// handleRaw serves the content of a file the way a static file server
// would, with its content type, Last-Modified and Range support.
func (a *API) handleRaw(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	path := vfs.Normalize(router.Wildcard(r))
	name := strings.TrimPrefix(path, "/")
	if name == "" {
		name = "."
	}

	fsys := sess.FS.FS()
	info, err := fs.Stat(fsys, name)
	switch {
	case err != nil:
		a.fail(w, r, fmt.Errorf("%s: %w", path, vfs.ErrNotFound))
	case info.IsDir():
		a.fail(w, r, fmt.Errorf("%s: %w", path, vfs.ErrIsDirectory))
	default:
		http.ServeFileFS(w, r, fsys, name)
	}
}

// sendEntry answers with the entry a mutation just wrote.
func (a *API) sendEntry(w http.ResponseWriter, r *http.Request, fs *vfs.Store, req EntryRequest, code int) {
	node, found := fs.Resolve(vfs.Join(req.Path, req.Name))
	if !found {
		// Deleted by a concurrent request.
		a.fail(w, r, fmt.Errorf("%s: %w", vfs.Join(req.Path, req.Name), vfs.ErrNotFound))
		return
	}
	sendJSON(w, code, node)
}

func (a *API) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	a.mutateEntry(w, r, http.StatusCreated, func(fs *vfs.Store, req EntryRequest) error {
		return fs.MakeFile(req.Path, req.Name, req.Content)
	})
}

func (a *API) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	a.mutateEntry(w, r, http.StatusOK, func(fs *vfs.Store, req EntryRequest) error {
		return fs.WriteContent(req.Path, req.Name, req.Content)
	})
}

func (a *API) handleCreateDirectory(w http.ResponseWriter, r *http.Request) {
	a.mutateEntry(w, r, http.StatusCreated, func(fs *vfs.Store, req EntryRequest) error {
		return fs.MakeDirectory(req.Path, req.Name)
	})
}

func (a *API) mutateEntry(w http.ResponseWriter, r *http.Request, code int, edit func(*vfs.Store, EntryRequest) error) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req EntryRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := edit(sess.FS, req); err != nil {
		a.fail(w, r, err)
		return
	}
	a.sendEntry(w, r, sess.FS, req, code)
}

// handleDelete removes ?name= from the directory ?path=. Removing a name
// that does not exist succeeds.
func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	path, name := q.Get("path"), q.Get("name")
	if path == "" {
		path = "/"
	}

	var removed bool
	switch q.Get("kind") {
	case "", "file":
		removed = sess.FS.DeleteFile(path, name)
	case "directory":
		removed = sess.FS.DeleteDirectory(path, name)
	default:
		a.fail(w, r, fmt.Errorf("%w: kind must be file or directory", errBadRequest))
		return
	}
	if !removed {
		a.fail(w, r, fmt.Errorf("%s: %w", path, vfs.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams the session's file system changes as Server-Sent
// Events until the client goes away.
func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		sendError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ch := sess.FS.Subscribe()
	defer sess.FS.Unsubscribe(ch)

	log := logging.WithContext(r.Context())
	log.Debug("event stream opened", zap.String("session", sess.ID))

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debug("event stream closed", zap.String("session", sess.ID))
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Op, data)
			flusher.Flush()
		}
	}
}
