package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"hopper/internal/history"
	"hopper/internal/lifecycle"
	"hopper/internal/logging"
	"hopper/internal/media/audio"
	"hopper/internal/media/ffprobe"
	"hopper/internal/services"
	"hopper/internal/transcode"
)

// runPass executes one orchestration pass: scan, prune stability state, and
// advance every stable candidate. The space gate is probed fresh before each
// start; when it blocks, every remaining start is deferred to the next pass.
func (m *Manager) runPass(ctx context.Context) {
	items, live := m.scan()
	m.detector.Prune(live)

	for _, item := range items {
		if ctx.Err() != nil {
			return
		}

		if !m.detector.ObserveFile(item.SourcePath) {
			m.logger.Debug("waiting for file to stabilize",
				logging.String(logging.FieldSource, item.Display()))
			continue
		}

		allowed, free, err := m.gate.Check()
		if err != nil {
			m.logger.Warn("free-space probe failed; deferring all new starts",
				logging.Error(err))
			break
		}
		if !allowed {
			m.logger.Warn("free space below floor; deferring all new starts",
				logging.String("free", humanize.IBytes(uint64(free)*1024*1024)),
				logging.Int64("min_free_mb", m.gate.MinMB()),
			)
			break
		}

		if err := m.processItem(ctx, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.setLastError(err)
			m.logger.Error("item processing failed",
				logging.String(logging.FieldSource, item.Display()),
				logging.Error(err),
			)
		}
	}
	m.markPass()
}

// processItem drives a single stable file to a terminal directory. Returned
// errors are transient conditions left for the next pass; terminal failures
// are committed here and do not propagate.
func (m *Manager) processItem(ctx context.Context, item lifecycle.Item) error {
	rel, err := filepath.Rel(m.cfg.VideoRoot, item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "resolve option",
			"source path escapes video root", err)
	}
	resolved := m.resolver.Resolve(filepath.ToSlash(rel))

	probe, probeErr := ffprobe.Inspect(ctx, m.ffprobe, item.SourcePath)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if probeErr != nil || probe.VideoStreamCount() == 0 {
		return m.fileNonMedia(ctx, item)
	}

	plan := audio.BuildPlan(probe, m.cfg.RequireEnglish)
	for _, dropped := range plan.Dropped() {
		m.logger.Warn("dropping audio stream",
			logging.String(logging.FieldSource, item.Display()),
			logging.Int("track", dropped.Track),
			logging.String("language", dropped.Language),
			logging.Error(dropped.Err),
		)
	}
	args := append(resolved.Args, plan.ExtraTrackArgs()...)

	item.State = lifecycle.StateTranscoding
	m.logger.Info("starting transcode",
		logging.String(logging.FieldSource, item.Display()),
		logging.String(logging.FieldOption, resolved.Key),
	)

	started := time.Now()
	result, runErr := m.runner.Run(ctx, transcode.Request{
		InputPath:  item.SourcePath,
		OutputPath: m.mover.WorkPath(item),
		Args:       args,
	})
	if ctx.Err() != nil {
		// Shutdown mid-transcode: leave the file in input for the next run.
		return ctx.Err()
	}
	if runErr == nil {
		runErr = transcode.ValidateOutput(ctx, m.ffprobe, m.mover.WorkPath(item))
	}
	if runErr != nil {
		if services.Disposer(runErr) == services.DispositionRetry {
			// Transient condition: leave the file in input for the next pass.
			return runErr
		}
		return m.commitFailure(ctx, item, resolved.Key, result, started, runErr)
	}
	return m.commitSuccess(ctx, item, resolved.Key, result, started)
}

func (m *Manager) commitSuccess(ctx context.Context, item lifecycle.Item, key string, result transcode.Result, started time.Time) error {
	if err := m.mover.CommitSuccess(item); err != nil {
		// Output is still in the work directory; the next pass retries the
		// whole file.
		return err
	}
	m.detector.Forget(item.SourcePath)
	m.countOutcome(history.OutcomeSucceeded)
	m.logger.Info("transcode succeeded",
		logging.String(logging.FieldSource, item.Display()),
		logging.String(logging.FieldOption, key),
		logging.Duration("duration", result.Duration),
	)
	m.record(ctx, history.Record{
		RunID:      m.runID,
		OptionKey:  key,
		SourcePath: item.SourcePath,
		OutputPath: m.mover.OutputPath(item),
		Outcome:    history.OutcomeSucceeded,
		Duration:   result.Duration,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	return nil
}

func (m *Manager) commitFailure(ctx context.Context, item lifecycle.Item, key string, result transcode.Result, started time.Time, cause error) error {
	m.logger.Error("transcode failed",
		logging.String(logging.FieldSource, item.Display()),
		logging.String(logging.FieldOption, key),
		logging.Error(cause),
	)
	if err := m.mover.CommitFailure(item); err != nil {
		return err
	}
	m.detector.Forget(item.SourcePath)
	m.countOutcome(history.OutcomeFailed)
	m.record(ctx, history.Record{
		RunID:      m.runID,
		OptionKey:  key,
		SourcePath: item.SourcePath,
		Outcome:    history.OutcomeFailed,
		Detail:     cause.Error(),
		ToolOutput: result.Output,
		Duration:   result.Duration,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	return nil
}

// fileNonMedia moves a file the prober cannot read as video straight to the
// option's output directory, name unchanged.
func (m *Manager) fileNonMedia(ctx context.Context, item lifecycle.Item) error {
	m.logger.Info("filing non-media file to output",
		logging.String(logging.FieldSource, item.Display()))
	if err := m.mover.FileToOutput(item); err != nil {
		return err
	}
	m.detector.Forget(item.SourcePath)
	m.countOutcome(history.OutcomeFiled)
	now := time.Now()
	m.record(ctx, history.Record{
		RunID:      m.runID,
		OptionKey:  item.OptionKey,
		SourcePath: item.SourcePath,
		Outcome:    history.OutcomeFiled,
		StartedAt:  now,
		FinishedAt: now,
	})
	return nil
}

// record appends to the ledger when one is attached. The ledger is
// observational, so failures only warn.
func (m *Manager) record(ctx context.Context, rec history.Record) {
	if m.ledger == nil {
		return
	}
	if err := m.ledger.Append(ctx, rec); err != nil {
		m.logger.Warn("failed to record history row", logging.Error(err))
	}
}
