package api

import (
	"net/http"

	"webdesk/pkg/router"
	"webdesk/pkg/terminal"
)

// InputRequest carries a terminal input line.
type InputRequest struct {
	Input string `json:"input"`
}

// CompleteResponse is the result of a Tab press.
type CompleteResponse struct {
	Input      string         `json:"input"`
	Candidates []string       `json:"candidates"`
	Terminal   terminal.State `json:"terminal"`
}

// terminalRequest resolves the :wid terminal and decodes the input line.
func (a *API) terminalRequest(w http.ResponseWriter, r *http.Request) (*terminal.Terminal, InputRequest, bool) {
	var req InputRequest
	sess, ok := a.session(w, r)
	if !ok {
		return nil, req, false
	}
	t, err := sess.Terminal(router.Param(r, "wid"))
	if err != nil {
		a.fail(w, r, err)
		return nil, req, false
	}
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return nil, req, false
	}
	return t, req, true
}

func terminalState(t *terminal.Terminal) terminal.State {
	st, _ := t.Render().State.(terminal.State)
	return st
}

func (a *API) handleExec(w http.ResponseWriter, r *http.Request) {
	t, req, ok := a.terminalRequest(w, r)
	if !ok {
		return
	}
	t.Execute(req.Input)
	sendJSON(w, http.StatusOK, terminalState(t))
}

func (a *API) handleComplete(w http.ResponseWriter, r *http.Request) {
	t, req, ok := a.terminalRequest(w, r)
	if !ok {
		return
	}
	candidates := t.Completions(req.Input)
	if candidates == nil {
		candidates = []string{}
	}
	input := t.Complete(req.Input)
	sendJSON(w, http.StatusOK, CompleteResponse{
		Input:      input,
		Candidates: candidates,
		Terminal:   terminalState(t),
	})
}
