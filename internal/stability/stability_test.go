package stability

import (
	"testing"
	"time"
)

func newTestDetector(window time.Duration) (*Detector, *time.Time) {
	d := NewDetector(window)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }
	return d, &clock
}

func TestFirstObservationIsNeverStable(t *testing.T) {
	d, _ := newTestDetector(30 * time.Second)
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if d.Observe("/in/movie.mkv", 100, mtime) {
		t.Fatal("first observation must not report stable")
	}
}

func TestStableAfterFullWindow(t *testing.T) {
	d, clock := newTestDetector(30 * time.Second)
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	d.Observe("/in/movie.mkv", 100, mtime)

	*clock = clock.Add(29 * time.Second)
	if d.Observe("/in/movie.mkv", 100, mtime) {
		t.Fatal("must not report stable before the window elapses")
	}

	*clock = clock.Add(time.Second)
	if !d.Observe("/in/movie.mkv", 100, mtime) {
		t.Fatal("expected stable after a full unchanged window")
	}
}

func TestChangeResetsClock(t *testing.T) {
	d, clock := newTestDetector(30 * time.Second)
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	d.Observe("/in/movie.mkv", 100, mtime)
	*clock = clock.Add(25 * time.Second)

	// Still growing: size changed mid-wait.
	if d.Observe("/in/movie.mkv", 150, mtime) {
		t.Fatal("changed file must not be stable")
	}

	*clock = clock.Add(30 * time.Second)
	if !d.Observe("/in/movie.mkv", 150, mtime) {
		t.Fatal("expected stable one window after the last change")
	}
}

func TestMtimeChangeAloneResets(t *testing.T) {
	d, clock := newTestDetector(30 * time.Second)
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	d.Observe("/in/movie.mkv", 100, mtime)
	*clock = clock.Add(time.Minute)
	if d.Observe("/in/movie.mkv", 100, mtime.Add(time.Second)) {
		t.Fatal("mtime change must reset the stability clock")
	}
}

func TestPruneDropsDepartedPaths(t *testing.T) {
	d, clock := newTestDetector(30 * time.Second)
	mtime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	d.Observe("/in/a.mkv", 1, mtime)
	d.Observe("/in/b.mkv", 2, mtime)
	d.Prune(map[string]struct{}{"/in/b.mkv": {}})

	*clock = clock.Add(time.Minute)
	// a was pruned, so this counts as a first observation again.
	if d.Observe("/in/a.mkv", 1, mtime) {
		t.Fatal("pruned path must restart its window")
	}
	if !d.Observe("/in/b.mkv", 2, mtime) {
		t.Fatal("kept path should report stable")
	}
}
