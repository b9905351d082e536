package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info upper case", level: "INFO", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning", level: "warning", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "unknown defaults to debug", level: "verbose", want: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.level); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "test")

	handler := middleware.RequestID(RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ContextWithLogAttrs(r.Context(), slog.String("user_id", "u-1"))
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/products/42", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not a single JSON record: %v\n%s", err, buf.String())
	}

	if record["level"] != "WARN" {
		t.Errorf("level = %v, want WARN for a 404", record["level"])
	}
	if record["path"] != "/api/products/42" {
		t.Errorf("path = %v", record["path"])
	}
	if record["user_id"] != "u-1" {
		t.Errorf("handler attribute missing from request log: %v", record)
	}
	if record["request_id"] == "" || record["request_id"] == nil {
		t.Errorf("request_id missing from request log: %v", record)
	}
}

func TestRequestLoggingSkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "test")

	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if buf.Len() != 0 {
		t.Errorf("health request was logged: %s", buf.String())
	}
}
