// Package stability decides when a candidate input file has finished being
// written. Files arriving over SFTP/SMB/NFS may be partially copied for a
// long time; a file is treated as stable only once its size and modification
// time have held still across a full waiting window.
package stability

import (
	"os"
	"sync"
	"time"
)

type observation struct {
	size  int64
	mtime time.Time
	seen  time.Time
}

// Detector tracks per-path observations between orchestration passes. It
// holds no other state: entries for files that leave the input directory are
// pruned each pass, so a restart simply begins a fresh window.
type Detector struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]observation
}

// NewDetector builds a detector with the given waiting window.
func NewDetector(window time.Duration) *Detector {
	return &Detector{
		window:  window,
		now:     time.Now,
		entries: make(map[string]observation),
	}
}

// Observe records the current size and mtime for path and reports whether the
// file is stable: unchanged since a prior observation at least one full
// window ago. Any change resets the clock.
func (d *Detector) Observe(path string, size int64, mtime time.Time) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	prior, ok := d.entries[path]
	if !ok || prior.size != size || !prior.mtime.Equal(mtime) {
		d.entries[path] = observation{size: size, mtime: mtime, seen: now}
		return false
	}
	return now.Sub(prior.seen) >= d.window
}

// ObserveFile stats path and records the result. Missing files report not
// stable without error detail; absence of stability is never an error.
func (d *Detector) ObserveFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		d.Forget(path)
		return false
	}
	return d.Observe(path, info.Size(), info.ModTime())
}

// Forget drops the tracked observation for path.
func (d *Detector) Forget(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, path)
}

// Prune drops every tracked path not present in live, keeping the map bounded
// by the current input directory contents.
func (d *Detector) Prune(live map[string]struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path := range d.entries {
		if _, ok := live[path]; !ok {
			delete(d.entries, path)
		}
	}
}
