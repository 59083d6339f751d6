package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
	if GetRequestID(context.Background()) != "" {
		t.Error("expected empty request id on a bare context")
	}
	if WithContext(ctx) == nil {
		t.Error("expected a logger from context")
	}
}

func TestMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc" || rec.Header().Get(RequestIDHeader) != "abc" {
		t.Errorf("expected request id to propagate, got %q / %q", seen, rec.Header().Get(RequestIDHeader))
	}

	done := logs.FilterMessage("request completed").All()
	if len(done) != 1 {
		t.Fatalf("expected one completion log, got %d", len(done))
	}
	fields := done[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["size"] != int64(15) {
		t.Errorf("unexpected fields %v", fields)
	}
	if fields["request_id"] != "abc" {
		t.Errorf("expected request_id field, got %v", fields["request_id"])
	}
}

func TestMiddlewareGeneratesID(t *testing.T) {
	SetLogger(zap.NewNop())

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
}

func TestNewLevels(t *testing.T) {
	logger, atom, err := New(Config{Level: "debug", Format: "console", OutputPath: "stderr"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) || atom.Level() != zap.DebugLevel {
		t.Error("expected debug level enabled")
	}

	_, atom, err = New(Config{Level: "nonsense"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if atom.Level() != zap.InfoLevel {
		t.Errorf("expected fallback to info, got %v", atom.Level())
	}
}
