// Package diskspace gates new transcode starts on free space at the work
// directory. The probe reads the filesystem fresh on every decision; nothing
// is cached, so a single gating call per pass is the only synchronization the
// shared space budget needs.
package diskspace

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Prober reports the free megabytes available at a path. Tests substitute
// their own implementation.
type Prober func(path string) (int64, error)

// FreeMB reports free space in megabytes on the volume backing path, as
// available to unprivileged writers.
func FreeMB(path string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return int64(stat.Bavail) * stat.Bsize / (1024 * 1024), nil
}

// Gate answers whether new work may start given a minimum free-space floor.
type Gate struct {
	path  string
	minMB int64
	probe Prober
}

// NewGate builds a gate for the given path and floor. A nil probe uses the
// real filesystem.
func NewGate(path string, minMB int64, probe Prober) *Gate {
	if probe == nil {
		probe = FreeMB
	}
	return &Gate{path: path, minMB: minMB, probe: probe}
}

// Check probes free space and reports whether new starts are allowed along
// with the observed free megabytes. Probe failures block new starts but are
// not fatal; the next pass retries.
func (g *Gate) Check() (bool, int64, error) {
	free, err := g.probe(g.path)
	if err != nil {
		return false, 0, err
	}
	return free >= g.minMB, free, nil
}

// MinMB returns the configured floor.
func (g *Gate) MinMB() int64 {
	return g.minMB
}
