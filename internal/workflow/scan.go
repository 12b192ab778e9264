package workflow

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hopper/internal/lifecycle"
	"hopper/internal/logging"
)

// scan walks every conversion option's input tree and returns the candidate
// items plus the set of live source paths for pruning stability state.
// Dotfiles and dot-directories are skipped; ordering is deterministic so two
// scans of the same tree produce the same worklist.
func (m *Manager) scan() ([]lifecycle.Item, map[string]struct{}) {
	var items []lifecycle.Item
	live := make(map[string]struct{})
	now := time.Now()

	for _, key := range m.cfg.OptionKeys() {
		inputDir := m.cfg.InputDir(key)
		err := filepath.WalkDir(inputDir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				m.logger.Warn("cannot access path during scan",
					logging.String("path", path), logging.Error(err))
				return nil
			}
			name := entry.Name()
			if strings.HasPrefix(name, ".") && path != inputDir {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.IsDir() {
				return nil
			}

			relDir := ""
			if rel, relErr := filepath.Rel(inputDir, filepath.Dir(path)); relErr == nil && rel != "." {
				relDir = rel
			}
			items = append(items, lifecycle.Item{
				OptionKey:    key,
				RelDir:       relDir,
				Filename:     name,
				SourcePath:   path,
				DiscoveredAt: now,
				State:        lifecycle.StateDiscovered,
			})
			live[path] = struct{}{}
			return nil
		})
		if err != nil {
			m.logger.Warn("scan failed for option input",
				logging.String(logging.FieldOption, key), logging.Error(err))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].SourcePath < items[j].SourcePath
	})
	return items, live
}
