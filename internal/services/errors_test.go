package services_test

import (
	"errors"
	"strings"
	"testing"

	"hopper/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcode", "run", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "run", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "scan", "stat", "gone", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected nil marker to default to transient, got %v", err)
	}
}

func TestDisposerMapping(t *testing.T) {
	transient := services.Wrap(services.ErrTransient, "space", "check", "disk full", nil)
	if got := services.Disposer(transient); got != services.DispositionRetry {
		t.Fatalf("expected retry for transient error, got %v", got)
	}

	tool := services.Wrap(services.ErrExternalTool, "transcode", "run", "exit 1", errors.New("exit 1"))
	if got := services.Disposer(tool); got != services.DispositionFail {
		t.Fatalf("expected fail for tool error, got %v", got)
	}

	if got := services.Disposer(errors.New("unknown")); got != services.DispositionFail {
		t.Fatalf("expected fail for unknown error, got %v", got)
	}
}
