package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRedactAttr_KeyBased(t *testing.T) {
	a := RedactAttr(nil, slog.String("api_key", "AIzaSyExample1234567890"))
	if a.Value.String() != "[REDACTED]" {
		t.Fatalf("api_key value not redacted: %s", a.Value.String())
	}

	a = RedactAttr(nil, slog.String("gemini_key", "whatever"))
	if a.Value.String() != "[REDACTED]" {
		t.Fatalf("key substring not redacted: %s", a.Value.String())
	}
}

func TestRedactAttr_ValueBased(t *testing.T) {
	a := RedactAttr(nil, slog.String("detail", "request used AIzaSyExample1234567890 for auth"))
	if a.Value.String() != "[REDACTED]" {
		t.Fatalf("AIza pattern not redacted: %s", a.Value.String())
	}

	a = RedactAttr(nil, slog.String("row", "42"))
	if a.Value.String() != "42" {
		t.Fatalf("harmless attr was redacted: %s", a.Value.String())
	}
}

func TestPrettyHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: RedactAttr}, false)

	r := slog.NewRecord(time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC), slog.LevelWarn, "Fallback provider engaged", 0)
	r.AddAttrs(slog.Int("index", 7))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "WARN") {
		t.Errorf("missing level in output: %q", out)
	}
	if !strings.Contains(out, "Fallback provider engaged") {
		t.Errorf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "index=7") {
		t.Errorf("missing attr in output: %q", out)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
