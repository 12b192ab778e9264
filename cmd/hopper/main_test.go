package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := `video_root: ` + filepath.Join(base, "video") + `
log_dir: ` + filepath.Join(base, "logs") + `
conversion_options:
  defaults: ""
  quality/720p: "--720p"
`
	path := filepath.Join(base, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "video_root:") {
		t.Fatalf("expected video_root in output, got %q", out)
	}
	if !strings.Contains(out, "quality/720p") {
		t.Fatalf("expected conversion option in output, got %q", out)
	}
	if !strings.Contains(out, cfgPath) {
		t.Fatalf("expected config path comment, got %q", out)
	}
}

func TestConfigPathPrintsResolvedPath(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", cfgPath, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Fatalf("expected %q, got %q", cfgPath, out)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := executeCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config written: %v", err)
	}
	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestStatusRendersOptionCounts(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Conversion options") {
		t.Fatalf("expected options section, got %q", out)
	}
	if !strings.Contains(out, "quality/720p") {
		t.Fatalf("expected option row, got %q", out)
	}
	if !strings.Contains(out, "not running") {
		t.Fatalf("expected daemon not running, got %q", out)
	}
}

func TestHistoryEmptyLedger(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := executeCommand(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No history recorded yet.") {
		t.Fatalf("expected empty-ledger message, got %q", out)
	}
}

func TestInvalidConfigFailsEarly(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "config.yaml")
	content := `video_root: ` + filepath.Join(base, "video") + `
write_waiting_threshold: 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := executeCommand(t, "--config", path, "status"); err == nil {
		t.Fatal("expected validation failure for zero threshold")
	}
}
