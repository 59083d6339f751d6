// Package api exposes desktop sessions as a JSON HTTP API.
//
// Every session is addressed under /api/v1/sessions/:sid and owns its
// windows, file system and terminals:
//
//	POST   /api/v1/sessions                              new desktop
//	GET    /api/v1/sessions/:sid                         desktop snapshot
//	POST   /api/v1/sessions/:sid/windows                 launch {"app": "terminal"}
//	POST   /api/v1/sessions/:sid/windows/:wid/focus      also minimize, maximize, close
//	POST   /api/v1/sessions/:sid/windows/:wid/position   {"x": 10, "y": 20}
//	POST   /api/v1/sessions/:sid/windows/:wid/action     {"action": "press", "key": "7"}
//	GET    /api/v1/sessions/:sid/fs?path=/home/user      resolve a path
//	GET    /api/v1/sessions/:sid/fs/events               file system changes (SSE)
//	GET    /api/v1/sessions/:sid/fs/raw/home/user/a.txt  file content, Range aware
//	POST   /api/v1/sessions/:sid/terminal/:wid/exec      {"input": "ls"}
//
// Errors are answered as {"error": "...", "code": 404}.
//
// Example usage:
//
//	reg := desktop.NewRegistry(desktop.Config{}, 30*time.Minute)
//	http.ListenAndServe(":8080", api.NewRouter(reg, logging.L()))
package api
