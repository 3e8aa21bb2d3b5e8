package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evyataryagoni/schoolfinder/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, entry)
	}
	return lines
}

// TestLoggingMiddleware_LevelByStatus tests the completion level for each status class
func TestLoggingMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusCreated, "info"},
		{http.StatusBadRequest, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.New(logger.Config{Level: "info", Output: &buf})

			handler := middleware.RequestID(LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})))

			req := httptest.NewRequest(http.MethodGet, "/listSchools?latitude=1&longitude=2", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			lines := decodeLogLines(t, &buf)
			if len(lines) != 1 {
				t.Fatalf("expected 1 log line at info level, got %d", len(lines))
			}
			entry := lines[0]
			if entry["level"] != tt.level {
				t.Errorf("expected level %s, got %v", tt.level, entry["level"])
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("expected status %d, got %v", tt.status, entry["status"])
			}
			if entry["path"] != "/listSchools" {
				t.Errorf("unexpected path %v", entry["path"])
			}
			if entry["query"] != "latitude=1&longitude=2" {
				t.Errorf("unexpected query %v", entry["query"])
			}
			if id, _ := entry["request_id"].(string); id == "" {
				t.Error("expected request_id field")
			}
		})
	}
}

// TestLoggingMiddleware_DebugStart tests that request start is logged at debug
func TestLoggingMiddleware_DebugStart(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Output: &buf})

	handler := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	lines := decodeLogLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["message"] != "Request started" {
		t.Errorf("unexpected first message %v", lines[0]["message"])
	}
	if lines[1]["status"] != float64(http.StatusOK) {
		t.Errorf("expected implicit 200, got %v", lines[1]["status"])
	}
	if lines[1]["bytes"] != float64(2) {
		t.Errorf("expected 2 bytes, got %v", lines[1]["bytes"])
	}
}
