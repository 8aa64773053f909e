package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		l, err := NewLogger(env)
		if err != nil {
			t.Errorf("NewLogger(%q): unexpected error: %v", env, err)
			continue
		}
		_ = l.Sync()
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled with warn override")
	}
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger, got nil")
	}

	core, logs := observer.New(zap.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))
	FromContext(ctx).Info("hello")

	if logs.Len() != 1 {
		t.Errorf("expected 1 log entry, got %d", logs.Len())
	}
}

func TestFromContextOr(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)

	FromContextOr(context.Background(), base).Info("from base")
	if logs.Len() != 1 {
		t.Fatalf("expected base logger to be used, got %d entries", logs.Len())
	}

	reqCore, reqLogs := observer.New(zap.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(reqCore))
	FromContextOr(ctx, base).Info("from request")
	if reqLogs.Len() != 1 || logs.Len() != 1 {
		t.Errorf("expected request logger to win: req=%d base=%d", reqLogs.Len(), logs.Len())
	}

	if FromContextOr(context.Background(), nil) == nil {
		t.Error("nil base must fall back to nop")
	}
}
