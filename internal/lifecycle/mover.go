package lifecycle

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"hopper/internal/config"
	"hopper/internal/fileutil"
	"hopper/internal/logging"
	"hopper/internal/services"
)

// Mover relocates files between the subdirectories that encode processing
// state. All moves are serialized through one mutex; the free-space budget
// and the directory tree are shared resources with a single writer.
type Mover struct {
	cfg    *config.Config
	logger *slog.Logger

	mu sync.Mutex
}

// NewMover builds a mover for the configured directory layout.
func NewMover(cfg *config.Config, logger *slog.Logger) *Mover {
	return &Mover{cfg: cfg, logger: logging.NewComponentLogger(logger, "lifecycle")}
}

// WorkPath returns the shared-scratch location the tool writes for an item.
func (m *Mover) WorkPath(item Item) string {
	return filepath.Join(m.cfg.AbsWorkDir(), item.OutputName(m.cfg.OutputExtension))
}

// OutputPath returns the item's terminal output location.
func (m *Mover) OutputPath(item Item) string {
	return filepath.Join(m.cfg.OptionDir(item.OptionKey), m.cfg.OutputSubdir, item.RelDir,
		item.OutputName(m.cfg.OutputExtension))
}

// SuccessfulOriginalPath returns where the source file rests after success.
func (m *Mover) SuccessfulOriginalPath(item Item) string {
	return filepath.Join(m.cfg.OptionDir(item.OptionKey), m.cfg.SuccessfulOriginalsSubdir, item.RelDir, item.Filename)
}

// FailedOriginalPath returns where the source file rests after failure.
func (m *Mover) FailedOriginalPath(item Item) string {
	return filepath.Join(m.cfg.OptionDir(item.OptionKey), m.cfg.FailedOriginalsSubdir, item.RelDir, item.Filename)
}

// CommitSuccess moves the finished work output into the option's output
// subdirectory and the original into successful originals. The tool's log
// file rides along when present. The output moves first: if the process dies
// between the two moves, the original is still in input and the next pass
// re-discovers it.
func (m *Mover) CommitSuccess(item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	workPath := m.WorkPath(item)
	outputPath := m.OutputPath(item)
	if err := fileutil.MoveFile(workPath, outputPath); err != nil {
		return services.Wrap(services.ErrTransient, "lifecycle", "commit output", "move work output", err)
	}
	if logPath := workPath + ".log"; fileExists(logPath) {
		if err := fileutil.MoveFile(logPath, outputPath+".log"); err != nil {
			m.logger.Warn("failed to move tool log alongside output", logging.Error(err))
		}
	}
	if err := fileutil.MoveFile(item.SourcePath, m.SuccessfulOriginalPath(item)); err != nil {
		return services.Wrap(services.ErrTransient, "lifecycle", "commit original", "move original to successful originals", err)
	}
	return nil
}

// CommitFailure moves the original into failed originals. Partial work
// artifacts are left in the work directory for inspection.
func (m *Mover) CommitFailure(item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fileutil.MoveFile(item.SourcePath, m.FailedOriginalPath(item)); err != nil {
		return services.Wrap(services.ErrTransient, "lifecycle", "commit failure", "move original to failed originals", err)
	}
	return nil
}

// FileToOutput moves a source file into the output subdirectory unchanged,
// preserving its name. Used for non-media files found in input.
func (m *Mover) FileToOutput(item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dst := filepath.Join(m.cfg.OptionDir(item.OptionKey), m.cfg.OutputSubdir, item.RelDir, item.Filename)
	if err := fileutil.MoveFile(item.SourcePath, dst); err != nil {
		return services.Wrap(services.ErrTransient, "lifecycle", "file non-media", "move non-media file to output", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
