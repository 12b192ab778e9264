// Package lifecycle encodes processing state as directory membership.
//
// A work item's state is wherever its file currently lives: input means
// pending, the work directory means transcoding, and the output/originals/
// failed subdirectories are terminal. Nothing is persisted elsewhere, so a
// crash mid-flight leaves a file in exactly one well-defined place and a
// restart re-derives everything by rescanning.
package lifecycle

import (
	"path/filepath"
	"strings"
	"time"
)

// State labels where an item is in its pass. It is derived, never stored.
type State string

const (
	StateDiscovered  State = "discovered"
	StateStabilizing State = "stabilizing"
	StateSpaceWait   State = "space-wait"
	StateTranscoding State = "transcoding"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
)

// Item represents one input file in flight. Items live for a single
// orchestration pass; the filesystem is the durable record.
type Item struct {
	// OptionKey is the conversion-option key the file resolved to.
	OptionKey string
	// RelDir is the file's directory path relative to the option's input
	// subdirectory, empty for files directly inside it. It is preserved in
	// all destinations.
	RelDir string
	// Filename is the base name of the source file.
	Filename string
	// SourcePath is the absolute input location.
	SourcePath string
	// DiscoveredAt is when this pass first saw the file.
	DiscoveredAt time.Time
	// State is the last state this pass drove the item to.
	State State
}

// OutputName returns the item's output file name with the given container
// extension.
func (i Item) OutputName(ext string) string {
	base := strings.TrimSuffix(i.Filename, filepath.Ext(i.Filename))
	return base + ext
}

// Display renders the item the way log lines reference it.
func (i Item) Display() string {
	return filepath.Join(i.RelDir, i.Filename) + " in " + i.OptionKey
}
