package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", 200, 5*time.Millisecond)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))

	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestGauges(t *testing.T) {
	SetSessionsActive(3)
	if v := testutil.ToFloat64(sessionsActive); v != 3 {
		t.Errorf("expected 3 sessions, got %v", v)
	}

	start := testutil.ToFloat64(windowsOpen)
	AddWindows(2)
	AddWindows(-1)
	if v := testutil.ToFloat64(windowsOpen); v-start != 1 {
		t.Errorf("expected window gauge to grow by 1, got %v", v-start)
	}
}

func TestTerminalCommandLabels(t *testing.T) {
	before := testutil.ToFloat64(terminalCommandsTotal.WithLabelValues("unknown"))
	RecordTerminalCommand("frobnicate", false)
	RecordTerminalCommand("sudo", false)
	if v := testutil.ToFloat64(terminalCommandsTotal.WithLabelValues("unknown")); v-before != 2 {
		t.Errorf("expected unknown commands folded into one label, got %v", v-before)
	}
}

func TestHandler(t *testing.T) {
	RecordVFSMutation("create")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "webdesk_vfs_mutations_total") {
		t.Error("expected webdesk metrics in exposition output")
	}
}
