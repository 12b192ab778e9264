package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validate ensures the configuration is usable. Violations here are fatal at
// startup; the process refuses to run on a malformed config.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateThresholds(); err != nil {
		return err
	}
	if err := c.validateSubdirs(); err != nil {
		return err
	}
	if err := c.validateTool(); err != nil {
		return err
	}
	if err := c.validateOptions(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.VideoRoot) == "" {
		return errors.New("video_root must be set")
	}
	if strings.TrimSpace(c.WorkDir) == "" {
		return errors.New("work_dir must be set")
	}
	return nil
}

func (c *Config) validateThresholds() error {
	if c.WriteWaitingThreshold <= 0 {
		return errors.New("write_waiting_threshold must be greater than zero")
	}
	if c.MinFreeMB < 0 {
		return errors.New("min_free_mb must not be negative")
	}
	if c.ToolTimeout < 0 {
		return errors.New("tool_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateSubdirs() error {
	subdirs := map[string]string{
		"input_subdir":                c.InputSubdir,
		"output_subdir":               c.OutputSubdir,
		"successful_originals_subdir": c.SuccessfulOriginalsSubdir,
		"failed_originals_subdir":     c.FailedOriginalsSubdir,
	}
	seen := make(map[string]string, len(subdirs))
	for field, value := range subdirs {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", field)
		}
		if prior, ok := seen[value]; ok {
			return fmt.Errorf("%s and %s must name distinct subdirectories (both %q)", prior, field, value)
		}
		seen[value] = field
	}
	return nil
}

func (c *Config) validateTool() error {
	if strings.TrimSpace(c.ToolBinary) == "" {
		return errors.New("tool_binary must be set")
	}
	return nil
}

func (c *Config) validateOptions() error {
	if len(c.ConversionOptions) == 0 {
		return errors.New("conversion_options must define at least the defaults entry")
	}
	for key := range c.ConversionOptions {
		if path.IsAbs(key) || strings.Contains(key, "..") {
			return fmt.Errorf("conversion option key %q must be a relative path without parent references", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", c.LogLevel)
	}
	return nil
}
