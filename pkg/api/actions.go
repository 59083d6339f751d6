package api

import (
	"fmt"
	"net/http"

	"webdesk/pkg/apps/archive"
	"webdesk/pkg/apps/calculator"
	"webdesk/pkg/apps/filemanager"
	"webdesk/pkg/apps/texteditor"
	"webdesk/pkg/desktop"
	"webdesk/pkg/router"
	"webdesk/pkg/terminal"
	"webdesk/pkg/vfs"
	"webdesk/pkg/wm"
)

// ActionRequest is a user interaction with the application in a window.
// Which arguments are read depends on Action.
type ActionRequest struct {
	Action  string `json:"action"`
	Key     string `json:"key,omitempty"`
	Path    string `json:"path,omitempty"`
	Dir     string `json:"dir,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	Input   string `json:"input,omitempty"`
	ID      int    `json:"id,omitempty"`
}

// ActionResponse is the window after the action. Result carries the
// action's own answer, such as a status message or an extracted count.
type ActionResponse struct {
	Window desktop.WindowView `json:"window"`
	Result any                `json:"result,omitempty"`
}

func (a *API) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}
	id := router.Param(r, "wid")
	app, err := sess.App(id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req ActionRequest
	if err := decode(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	result, err := dispatch(app, req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if ed, ok := app.(*texteditor.Editor); ok {
		sess.WM.SetTitle(id, ed.Title())
	}

	win, err := sess.WM.Window(id)
	if err != nil {
		// Closed by its own action.
		a.fail(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, ActionResponse{Window: windowView(win), Result: result})
}

func dispatch(app wm.App, req ActionRequest) (any, error) {
	switch app := app.(type) {
	case *calculator.Calculator:
		return calculatorAction(app, req)
	case *filemanager.FileManager:
		return fileManagerAction(app, req)
	case *texteditor.Editor:
		return editorAction(app, req)
	case *archive.Manager:
		return archiveAction(app, req)
	case *terminal.Terminal:
		return terminalAction(app, req)
	}
	return nil, unknownAction(req)
}

func unknownAction(req ActionRequest) error {
	return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
}

func calculatorAction(c *calculator.Calculator, req ActionRequest) (any, error) {
	if req.Action != "press" {
		return nil, unknownAction(req)
	}
	if err := c.Press(req.Key); err != nil {
		return nil, fmt.Errorf("%w: %q", err, req.Key)
	}
	return nil, nil
}

func fileManagerAction(f *filemanager.FileManager, req ActionRequest) (any, error) {
	switch req.Action {
	case "navigate":
		return f.Navigate(req.Path), nil
	case "up":
		return f.Up(), nil
	case "home":
		return f.Home(), nil
	case "open":
		return nil, f.Open(req.Name)
	case "open_in_editor":
		return nil, f.OpenInEditor(req.Name)
	case "create_folder":
		return nil, f.CreateFolder(req.Name)
	case "create_file":
		return nil, f.CreateFile(req.Name)
	case "delete":
		return nil, f.Delete(req.Name)
	}
	return nil, unknownAction(req)
}

func editorAction(e *texteditor.Editor, req ActionRequest) (any, error) {
	switch req.Action {
	case "set_content":
		e.SetContent(req.Content)
		return nil, nil
	case "save":
		return e.Save()
	case "save_as":
		return e.SaveAs(req.Dir, req.Name)
	case "open":
		e.Open(req.Dir, req.Name)
		return nil, nil
	case "new":
		e.New()
		return nil, nil
	case "browse":
		if !e.Browse(req.Path) {
			return nil, fmt.Errorf("%s: %w", req.Path, vfs.ErrNotDirectory)
		}
		dir, files := e.Files()
		return map[string]any{"dir": dir, "files": files}, nil
	}
	return nil, unknownAction(req)
}

func archiveAction(m *archive.Manager, req ActionRequest) (any, error) {
	switch req.Action {
	case "set_source":
		if !m.SetSource(req.Path) {
			return nil, fmt.Errorf("%s: %w", req.Path, vfs.ErrNotDirectory)
		}
		return m.SourceFiles(), nil
	case "create":
		return m.Create(req.Name)
	case "open_sample":
		m.OpenSample()
		return nil, nil
	case "toggle":
		m.Toggle(req.ID)
		return nil, nil
	case "select_all":
		m.SelectAll()
		return nil, nil
	case "clear_selection":
		m.ClearSelection()
		return nil, nil
	case "extract":
		return m.Extract(req.Path)
	case "close_archive":
		m.CloseArchive()
		return nil, nil
	}
	return nil, unknownAction(req)
}

func terminalAction(t *terminal.Terminal, req ActionRequest) (any, error) {
	switch req.Action {
	case "execute":
		t.Execute(req.Input)
		return nil, nil
	case "complete":
		return t.Complete(req.Input), nil
	case "history_up":
		line, _ := t.HistoryUp()
		return line, nil
	case "history_down":
		return t.HistoryDown(), nil
	case "nano_set_content":
		return nil, t.NanoSetContent(req.Content)
	case "nano_save":
		return nil, t.NanoSave()
	case "nano_close":
		return nil, t.NanoClose()
	}
	return nil, unknownAction(req)
}
