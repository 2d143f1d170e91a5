package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, want FormatJSON", got)
	}
	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("ParseFormat(text) = %v, want FormatText", got)
	}
	if got := ParseFormat("weird"); got != FormatText {
		t.Errorf("ParseFormat(weird) = %v, want FormatText", got)
	}
}

func TestBasicLogging(t *testing.T) {
	out := captureLogOutput(func() {
		Info("hello", "key", "value")
	})
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("output missing attribute: %s", out)
	}
}

func TestEditOp(t *testing.T) {
	out := captureLogOutput(func() {
		EditOp("insert", "abc123", "index", 5, "count", 3)
	})
	for _, want := range []string{`"msg":"edit_op"`, `"op":"insert"`, `"fingerprint":"abc123"`, `"index":5`, `"count":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestStoreOp(t *testing.T) {
	out := captureLogOutput(func() {
		StoreOp("put", "doc-1", 1024)
	})
	for _, want := range []string{`"msg":"store_op"`, `"document_id":"doc-1"`, `"size_bytes":1024`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger() = nil")
	}
}
