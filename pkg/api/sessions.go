package api

import (
	"net/http"

	"go.uber.org/zap"

	"webdesk/pkg/desktop"
	"webdesk/pkg/router"
	"webdesk/pkg/wm"
)

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := a.registry.Create()
	a.logger.Info("session opened", zap.String("session", sess.ID), zap.String("remote", r.RemoteAddr))
	w.Header().Set("Location", Prefix+"/sessions/"+sess.ID)
	sendJSON(w, http.StatusCreated, sess.Snapshot())
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, sess.Snapshot())
}

func (a *API) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := router.Param(r, "sid")
	if err := a.registry.Delete(id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.logger.Info("session deleted", zap.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

// windowView renders one window with its application.
func windowView(win wm.Window) desktop.WindowView {
	return desktop.WindowView{Window: win, Content: win.View()}
}

func (a *API) handleListWindows(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	views := []desktop.WindowView{}
	for _, win := range sess.WM.Windows() {
		views = append(views, windowView(win))
	}
	sendJSON(w, http.StatusOK, views)
}

// LaunchRequest starts an application.
type LaunchRequest struct {
	App string `json:"app"`
}

func (a *API) handleLaunch(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	var req LaunchRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	id, err := sess.Launch(req.App)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.sendWindow(w, r, sess, id, http.StatusCreated)
}

// sendWindow writes the current state of window id.
func (a *API) sendWindow(w http.ResponseWriter, r *http.Request, sess *desktop.Session, id string, code int) {
	win, err := sess.WM.Window(id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	sendJSON(w, code, windowView(win))
}

func (a *API) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	a.sendWindow(w, r, sess, router.Param(r, "wid"), http.StatusOK)
}

// windowOp runs a window-manager operation on :wid and answers with the
// session snapshot, since these operations restack or hide other windows.
func (a *API) windowOp(w http.ResponseWriter, r *http.Request, op func(m *wm.Manager, id string)) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id := router.Param(r, "wid")
	if _, err := sess.WM.Window(id); err != nil {
		a.fail(w, r, err)
		return
	}
	op(sess.WM, id)
	sendJSON(w, http.StatusOK, sess.Snapshot())
}

func (a *API) handleFocus(w http.ResponseWriter, r *http.Request) {
	a.windowOp(w, r, (*wm.Manager).Focus)
}

func (a *API) handleMinimize(w http.ResponseWriter, r *http.Request) {
	a.windowOp(w, r, (*wm.Manager).Minimize)
}

func (a *API) handleMaximize(w http.ResponseWriter, r *http.Request) {
	a.windowOp(w, r, (*wm.Manager).Maximize)
}

func (a *API) handleClose(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := sess.CloseWindow(router.Param(r, "wid")); err != nil {
		a.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, sess.Snapshot())
}

func (a *API) handlePosition(w http.ResponseWriter, r *http.Request) {
	var p wm.Point
	if err := decode(w, r, &p); err != nil {
		a.fail(w, r, err)
		return
	}
	a.windowOp(w, r, func(m *wm.Manager, id string) { m.UpdatePosition(id, p) })
}

func (a *API) handleSize(w http.ResponseWriter, r *http.Request) {
	var s wm.Size
	if err := decode(w, r, &s); err != nil {
		a.fail(w, r, err)
		return
	}
	a.windowOp(w, r, func(m *wm.Manager, id string) { m.UpdateSize(id, s) })
}
