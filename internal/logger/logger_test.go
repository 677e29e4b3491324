package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"chatty":  zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("snapshot applied", "snapshot_meta", map[string]any{"version": 3})

	entries := logs.FilterMessage("snapshot applied").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["snapshot_meta"]; !ok {
		t.Fatalf("expected snapshot_meta field, got %#v", entries[0].ContextMap())
	}
}

func TestEnsureFallsBackToNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil input")
	}
	if _, ok := New(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil zap logger")
	}
}
