package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hopper/internal/config"
	"hopper/internal/diskspace"
	"hopper/internal/history"
	"hopper/internal/lifecycle"
	"hopper/internal/logging"
	"hopper/internal/options"
	"hopper/internal/stability"
	"hopper/internal/transcode"
)

// Manager coordinates orchestration passes over the conversion-option tree.
type Manager struct {
	cfg     *config.Config
	logger  *slog.Logger
	runID   string
	ffprobe string

	detector *stability.Detector
	gate     *diskspace.Gate
	resolver *options.Resolver
	runner   transcode.Runner
	mover    *lifecycle.Mover
	ledger   *history.Store

	pollInterval time.Duration
	nudges       <-chan struct{}

	mu        sync.RWMutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	lastErr   error
	lastPass  time.Time
	succeeded int
	failed    int
	filed     int
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithRunner substitutes the transcode runner (used in tests).
func WithRunner(runner transcode.Runner) ManagerOption {
	return func(m *Manager) { m.runner = runner }
}

// WithSpaceProbe substitutes the free-space probe (used in tests).
func WithSpaceProbe(probe diskspace.Prober) ManagerOption {
	return func(m *Manager) {
		m.gate = diskspace.NewGate(m.cfg.AbsWorkDir(), m.cfg.MinFreeMB, probe)
	}
}

// WithHistory attaches the observational run ledger.
func WithHistory(store *history.Store) ManagerOption {
	return func(m *Manager) { m.ledger = store }
}

// WithNudges wires a change-notification channel that shortens the wait
// between passes. Polling remains the source of truth.
func WithNudges(nudges <-chan struct{}) ManagerOption {
	return func(m *Manager) { m.nudges = nudges }
}

// WithFFprobeBinary overrides the media prober executable (used in tests).
func WithFFprobeBinary(binary string) ManagerOption {
	return func(m *Manager) { m.ffprobe = binary }
}

// NewManager constructs a workflow manager from validated configuration.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	resolver, err := options.NewResolver(cfg.GlobalArgs, cfg.ConversionOptions)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		runID:        uuid.NewString(),
		ffprobe:      cfg.FFprobeBinary(),
		detector:     stability.NewDetector(cfg.StabilityWindow()),
		gate:         diskspace.NewGate(cfg.AbsWorkDir(), cfg.MinFreeMB, nil),
		resolver:     resolver,
		runner:       transcode.NewExecRunner(cfg.ToolBinary, cfg.ToolCeiling(), logger),
		mover:        lifecycle.NewMover(cfg, logger),
		pollInterval: cfg.PollInterval(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// RunID identifies this manager session in logs and history rows.
func (m *Manager) RunID() string {
	return m.runID
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info("workflow started",
		logging.String(logging.FieldRunID, m.runID),
		logging.Duration("poll_interval", m.pollInterval),
	)
	go m.loop(runCtx)
	return nil
}

// Stop terminates background processing and waits for the current pass to
// finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("workflow stopped", logging.String(logging.FieldRunID, m.runID))
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		m.runPass(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		case <-m.nudges:
		}
	}
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) markPass() {
	m.mu.Lock()
	m.lastPass = time.Now()
	m.mu.Unlock()
}

func (m *Manager) countOutcome(outcome history.Outcome) {
	m.mu.Lock()
	switch outcome {
	case history.OutcomeSucceeded:
		m.succeeded++
	case history.OutcomeFailed:
		m.failed++
	case history.OutcomeFiled:
		m.filed++
	}
	m.mu.Unlock()
}
