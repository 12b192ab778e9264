package deps

import (
	"os"
	"path/filepath"
	"testing"

	"hopper/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "present tool", Command: present},
		{Name: "missing tool", Command: "clearly-not-present-binary"},
		{Name: "unconfigured", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Path == "" {
		t.Fatalf("expected first requirement available with path, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured detail, got %#v", results[2])
	}
}

func TestCheckUsesConfiguredTool(t *testing.T) {
	cfg := config.Default()
	cfg.ToolBinary = "some-custom-transcoder"

	results := Check(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected tool and ffprobe requirements, got %d", len(results))
	}
	if results[0].Command != "some-custom-transcoder" {
		t.Fatalf("expected configured tool binary, got %q", results[0].Command)
	}
	if results[1].Command != "ffprobe" {
		t.Fatalf("expected ffprobe requirement, got %q", results[1].Command)
	}
}
