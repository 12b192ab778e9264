// Package testsupport provides shared fixtures for package tests: temp-dir
// backed configurations and stub external binaries.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"hopper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test,
// a defaults entry plus one nested conversion option, and the full directory
// tree already created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.VideoRoot = filepath.Join(base, "video")
	cfgVal.WorkDir = "work"
	cfgVal.LogDir = filepath.Join(base, "logs")
	cfgVal.ConversionOptions = map[string]string{
		config.DefaultsKey: "",
		"quality/720p":     "--720p",
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithConversionOptions replaces the conversion-option map.
func WithConversionOptions(options map[string]string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.ConversionOptions = options
	}
}

// WithGlobalArgs sets the global tool arguments.
func WithGlobalArgs(args string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GlobalArgs = args
	}
}

// WithRequireEnglish enables the audio language policy.
func WithRequireEnglish() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.RequireEnglish = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends their directory to PATH. If names is empty, the default external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{b.cfg.ToolBinary, b.cfg.FFprobeBinary()}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		prependPath(b.t, binDir)
	}
}

func prependPath(t testing.TB, dir string) {
	t.Helper()
	current := os.Getenv("PATH")
	value := dir
	if current != "" {
		value = dir + string(os.PathListSeparator) + current
	}
	t.Setenv("PATH", value)
}
