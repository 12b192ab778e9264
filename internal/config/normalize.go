package config

import (
	"fmt"
	"path"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSubdirs()
	c.normalizeTool()
	c.normalizeOptions()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.VideoRoot = strings.TrimSpace(c.VideoRoot)
	if c.VideoRoot, err = expandPath(c.VideoRoot); err != nil {
		return fmt.Errorf("video_root: %w", err)
	}
	if strings.TrimSpace(c.LogDir) == "" {
		c.LogDir = defaultLogDir
	}
	if c.LogDir, err = expandPath(c.LogDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}
	c.WorkDir = strings.TrimSpace(c.WorkDir)
	if c.WorkDir == "" {
		c.WorkDir = defaultWorkDir
	}
	return nil
}

func (c *Config) normalizeSubdirs() {
	c.InputSubdir = subdirOrDefault(c.InputSubdir, defaultInputSubdir)
	c.OutputSubdir = subdirOrDefault(c.OutputSubdir, defaultOutputSubdir)
	c.SuccessfulOriginalsSubdir = subdirOrDefault(c.SuccessfulOriginalsSubdir, defaultSuccessfulOriginalsSubdir)
	c.FailedOriginalsSubdir = subdirOrDefault(c.FailedOriginalsSubdir, defaultFailedOriginalsSubdir)
}

func subdirOrDefault(value, fallback string) string {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func (c *Config) normalizeTool() {
	c.ToolBinary = strings.TrimSpace(c.ToolBinary)
	if c.ToolBinary == "" {
		c.ToolBinary = defaultToolBinary
	}
	c.GlobalArgs = strings.TrimSpace(c.GlobalArgs)
	ext := strings.TrimSpace(c.OutputExtension)
	if ext == "" {
		ext = defaultOutputExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.OutputExtension = ext
}

// normalizeOptions canonicalizes option keys (slash-separated, no leading or
// trailing slashes) and guarantees the defaults entry exists.
func (c *Config) normalizeOptions() {
	normalized := make(map[string]string, len(c.ConversionOptions)+1)
	for key, args := range c.ConversionOptions {
		cleaned := path.Clean(strings.Trim(strings.TrimSpace(key), "/"))
		if cleaned == "." || cleaned == "" {
			continue
		}
		normalized[cleaned] = strings.TrimSpace(args)
	}
	if _, ok := normalized[DefaultsKey]; !ok {
		normalized[DefaultsKey] = ""
	}
	c.ConversionOptions = normalized
}

func (c *Config) normalizeLogging() {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}
