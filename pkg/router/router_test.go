package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/logging"
)

func ok(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
}

func TestRouter_New(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
	if r.routes == nil {
		t.Error("routes map is nil")
	}
	if r.notFound == nil {
		t.Error("notFound handler is nil")
	}
}

func TestRouter_Methods(t *testing.T) {
	r := New()
	r.GET("/test", ok("get"))
	r.POST("/test", ok("post"))
	r.PUT("/test", ok("put"))
	r.DELETE("/test", ok("delete"))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		if len(r.routes[method]) != 1 {
			t.Errorf("expected 1 %s route, got %d", method, len(r.routes[method]))
		}
	}
}

func TestRouter_ServeHTTP_ExactMatch(t *testing.T) {
	r := New()
	r.GET("/exact/path", ok("exact match"))

	req := httptest.NewRequest(http.MethodGet, "/exact/path", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "exact match" {
		t.Errorf("expected body 'exact match', got '%s'", w.Body.String())
	}
}

func TestRouter_ServeHTTP_NotFound(t *testing.T) {
	r := New()
	r.GET("/test", ok("OK"))

	req := httptest.NewRequest(http.MethodGet, "/notfound", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_ServeHTTP_MethodNotAllowed(t *testing.T) {
	r := New()
	r.GET("/test", ok("OK"))
	r.DELETE("/test", ok("OK"))
	r.POST("/other", ok("OK"))

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != "DELETE, GET" {
		t.Errorf("expected Allow 'DELETE, GET', got %q", allow)
	}

	// A path no method knows is a plain 404.
	req = httptest.NewRequest(http.MethodPut, "/missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_NamedParameters(t *testing.T) {
	r := New()
	var got Params
	r.POST("/api/v1/sessions/:sid/windows/:wid/focus", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, _ = ParamsFromContext(req.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/windows/w-1/focus", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got.Get("sid") != "abc" || got.Get("wid") != "w-1" {
		t.Errorf("unexpected params %v", got)
	}
}

func TestRouter_ParameterDoesNotCrossSegments(t *testing.T) {
	r := New()
	r.GET("/users/:id", ok("user"))

	req := httptest.NewRequest(http.MethodGet, "/users/1/extra", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_LiteralSegmentsAreQuoted(t *testing.T) {
	r := New()
	r.GET("/files/a.txt", ok("file"))

	req := httptest.NewRequest(http.MethodGet, "/files/aXtxt", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected '.' to match literally, got status %d", w.Code)
	}
}

func TestRouter_Wildcard(t *testing.T) {
	r := New()
	var wildcard string
	r.GET("/static/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		wildcard = Wildcard(req)
	}))

	req := httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if wildcard != "/css/site.css" {
		t.Errorf("expected wildcard '/css/site.css', got %q", wildcard)
	}
}

func TestRouter_PatternInContext(t *testing.T) {
	r := New()
	var pattern string
	r.GET("/api/v1/sessions/:sid", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		pattern = PatternFromContext(req.Context())
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sessions/xyz", nil))

	if pattern != "/api/v1/sessions/:sid" {
		t.Errorf("unexpected pattern %q", pattern)
	}
}

func TestRouter_Use(t *testing.T) {
	r := New()
	var order []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "global")
			next.ServeHTTP(w, req)
		})
	})
	route := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "route")
			next.ServeHTTP(w, req)
		})
	}
	r.GET("/test", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	}), route)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	if len(order) != 3 || order[0] != "global" || order[1] != "route" || order[2] != "handler" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestRouter_SetNotFoundHandler(t *testing.T) {
	r := New()
	r.SetNotFoundHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	r.GET("/test", ok("OK"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notfound", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}
}

func TestRouter_SetMethodNotAllowedHandler(t *testing.T) {
	r := New()
	r.SetMethodNotAllowedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	r.GET("/test", ok("OK"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}
}

func TestRouter_Routes(t *testing.T) {
	r := New()
	r.GET("/test1", ok("OK"))
	r.POST("/test2", ok("OK"))

	if routes := r.Routes(); len(routes) != 2 {
		t.Errorf("expected 2 routes, got %d", len(routes))
	}
}

func TestParams(t *testing.T) {
	p := Params{"id": "123"}

	if p.Get("id") != "123" || p.Get("missing") != "" {
		t.Errorf("unexpected Get results")
	}
	if !p.Has("id") || p.Has("missing") {
		t.Errorf("unexpected Has results")
	}

	ctx := WithParams(context.Background(), p)
	got, ok := ParamsFromContext(ctx)
	if !ok || got.Get("id") != "123" {
		t.Error("expected params from context")
	}
	if Param(httptest.NewRequest(http.MethodGet, "/", nil), "id") != "" {
		t.Error("expected empty param outside a route")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	logging.SetLogger(zap.NewNop())

	handler := LoggingMiddleware()(ok("OK"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Header().Get(logging.RequestIDHeader) == "" {
		t.Error("expected X-Request-ID header to be set in response")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	r := New()
	r.Use(MetricsMiddleware())
	r.GET("/items/:id", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7", nil))

	if w.Code != http.StatusAccepted {
		t.Errorf("expected status %d, got %d", http.StatusAccepted, w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logging.SetLogger(zap.NewNop())

	handler := RecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware()(ok("OK"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected Access-Control-Allow-Origin header")
	}

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, httptest.NewRequest(http.MethodOptions, "/test", nil))
	if w2.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w2.Code)
	}
}

func TestCORSPreflightThroughRouter(t *testing.T) {
	r := New()
	r.Use(CORSMiddleware())
	r.POST("/api/v1/sessions", ok("created"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("expected preflight status %d, got %d", http.StatusNoContent, w.Code)
	}
}

func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mw("1"), mw("2"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "3")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	if len(order) != 3 || order[0] != "1" || order[1] != "2" || order[2] != "3" {
		t.Errorf("expected call order [1 2 3], got %v", order)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadline bool
	handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	if !deadline {
		t.Error("expected a request deadline")
	}
}
