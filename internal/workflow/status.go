package workflow

import "time"

// Status is a point-in-time snapshot of the manager for CLI display.
type Status struct {
	Running   bool
	RunID     string
	LastPass  time.Time
	LastError string
	Succeeded int
	Failed    int
	Filed     int
}

// Status reports the manager's current state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		Running:   m.running,
		RunID:     m.runID,
		LastPass:  m.lastPass,
		Succeeded: m.succeeded,
		Failed:    m.failed,
		Filed:     m.filed,
	}
	if m.lastErr != nil {
		status.LastError = m.lastErr.Error()
	}
	return status
}
