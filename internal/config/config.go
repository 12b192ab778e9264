package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed sample_config.yaml
var sampleConfig string

// DefaultsKey is the conversion-option key used when no configured key
// matches a discovered file.
const DefaultsKey = "defaults"

// Config encapsulates every knob the orchestrator needs. It is loaded once
// at startup and treated as immutable for the process lifetime; a restart is
// required to pick up edits.
type Config struct {
	// VideoRoot is the base directory holding one subtree per conversion
	// option. Each option subtree carries input/output/originals/failed
	// subdirectories named by the *_subdir fields below.
	VideoRoot string `yaml:"video_root"`

	// WorkDir is the shared scratch space the external tool writes into.
	// Relative values are resolved against VideoRoot.
	WorkDir string `yaml:"work_dir"`

	// LogDir holds the append-only log file, the daemon lock, and the
	// history database.
	LogDir string `yaml:"log_dir"`

	// WriteWaitingThreshold is the stability window in seconds: a file must
	// keep the same size and mtime across two observations at least this
	// far apart before it is picked up. It doubles as the poll cadence.
	WriteWaitingThreshold int `yaml:"write_waiting_threshold"`

	// MinFreeMB gates new transcode starts on free space at WorkDir.
	MinFreeMB int64 `yaml:"min_free_mb"`

	// RequireEnglish drops extra (non-default) audio streams whose language
	// is not English or unmarked.
	RequireEnglish bool `yaml:"require_english"`

	InputSubdir               string `yaml:"input_subdir"`
	OutputSubdir              string `yaml:"output_subdir"`
	SuccessfulOriginalsSubdir string `yaml:"successful_originals_subdir"`
	FailedOriginalsSubdir     string `yaml:"failed_originals_subdir"`

	// OutputExtension is the container extension of transcoded output.
	OutputExtension string `yaml:"output_extension"`

	// ToolBinary is the external transcoding command.
	ToolBinary string `yaml:"tool_binary"`

	// ToolTimeout bounds a single tool invocation in seconds. Zero disables
	// the ceiling.
	ToolTimeout int `yaml:"tool_timeout"`

	// GlobalArgs are prepended to every option's argument string.
	GlobalArgs string `yaml:"global_args"`

	// ConversionOptions maps path-like option keys to tool argument
	// strings. The "defaults" entry is used for unmatched paths and is
	// injected (empty) when absent.
	ConversionOptions map[string]string `yaml:"conversion_options"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hopper/config.yaml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hopper.yaml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// OptionKeys returns the configured conversion-option keys in stable order,
// defaults entry included.
func (c *Config) OptionKeys() []string {
	keys := make([]string, 0, len(c.ConversionOptions))
	for key := range c.ConversionOptions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// StabilityWindow returns the write-waiting threshold as a duration.
func (c *Config) StabilityWindow() time.Duration {
	return time.Duration(c.WriteWaitingThreshold) * time.Second
}

// PollInterval returns the orchestration pass cadence. It reuses the
// write-waiting threshold so a space-starved loop re-checks roughly every
// threshold interval instead of busy-polling.
func (c *Config) PollInterval() time.Duration {
	return c.StabilityWindow()
}

// ToolCeiling returns the per-invocation tool timeout, zero when unbounded.
func (c *Config) ToolCeiling() time.Duration {
	if c.ToolTimeout <= 0 {
		return 0
	}
	return time.Duration(c.ToolTimeout) * time.Second
}

// AbsWorkDir resolves the shared work directory against VideoRoot.
func (c *Config) AbsWorkDir() string {
	if filepath.IsAbs(c.WorkDir) {
		return filepath.Clean(c.WorkDir)
	}
	return filepath.Join(c.VideoRoot, c.WorkDir)
}

// LogFilePath returns the append-only log file location. Rotation is the
// operator's responsibility.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.LogDir, "transcoder.log")
}

// HistoryDBPath returns the location of the run-history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.LogDir, "history.db")
}

// LockFilePath returns the daemon single-instance lock location.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.LogDir, "hopperd.lock")
}

// OptionDir returns the subtree root for a conversion-option key.
func (c *Config) OptionDir(key string) string {
	return filepath.Join(c.VideoRoot, filepath.FromSlash(key))
}

// InputDir returns the input directory for a conversion-option key.
func (c *Config) InputDir(key string) string {
	return filepath.Join(c.OptionDir(key), c.InputSubdir)
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// EnsureDirectories creates the work directory, log directory, and every
// per-option subdirectory. Missing directories at startup are a fatal
// configuration error, so failures propagate.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.AbsWorkDir(), c.LogDir}
	for key := range c.ConversionOptions {
		option := c.OptionDir(key)
		dirs = append(dirs,
			filepath.Join(option, c.InputSubdir),
			filepath.Join(option, c.OutputSubdir),
			filepath.Join(option, c.SuccessfulOriginalsSubdir),
			filepath.Join(option, c.FailedOriginalsSubdir),
		)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
