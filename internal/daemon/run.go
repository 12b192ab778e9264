package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hopper/internal/config"
	"hopper/internal/deps"
	"hopper/internal/history"
	"hopper/internal/logging"
	"hopper/internal/watch"
	"hopper/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the hopper daemon loop and blocks until SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directory tree: %w", err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.LogFormat,
		OutputPaths: []string{"stdout", cfg.LogFilePath()},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	for _, status := range deps.Check(cfg) {
		if !status.Available {
			logger.Warn("required binary not found on PATH",
				logging.String("binary", status.Command),
				logging.String("purpose", status.Description),
			)
		}
	}

	ledger, err := history.Open(cfg)
	if err != nil {
		logger.Error("open history ledger", logging.Error(err))
		return err
	}

	watcher, err := watch.New(logger)
	if err != nil {
		logger.Warn("filesystem watcher unavailable; relying on polling", logging.Error(err))
		watcher = nil
	} else {
		for _, key := range cfg.OptionKeys() {
			if err := watcher.WatchTree(cfg.InputDir(key)); err != nil {
				logger.Warn("cannot watch input tree",
					logging.String(logging.FieldOption, key), logging.Error(err))
			}
		}
	}

	managerOpts := []workflow.ManagerOption{workflow.WithHistory(ledger)}
	if watcher != nil {
		managerOpts = append(managerOpts, workflow.WithNudges(watcher.Nudges()))
	}
	manager, err := workflow.NewManager(cfg, logger, managerOpts...)
	if err != nil {
		_ = ledger.Close()
		return fmt.Errorf("create workflow manager: %w", err)
	}

	d, err := New(cfg, logger, manager, ledger, watcher)
	if err != nil {
		_ = ledger.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer func() { _ = d.Close() }()

	if err := d.Start(signalCtx); err != nil {
		fmt.Fprintf(os.Stderr, "hopper: %v\n", err)
		return err
	}

	<-signalCtx.Done()
	logger.Info("hopper daemon shutting down")
	return nil
}
