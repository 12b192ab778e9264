// Package options maps discovered input files to conversion-option profiles.
//
// Option keys form a lightweight hierarchy of slash-separated paths (for
// example quality/1080p). Resolution is an explicit longest-prefix match over
// the configured keys, pure in (path, configuration), so re-running after a
// crash reproduces the same argument set.
package options

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// DefaultsKey receives files whose path matches no configured option key.
const DefaultsKey = "defaults"

// Resolved names the option key a file fell under and the full argument list
// for the transcoding tool: global arguments followed by the option's own.
type Resolved struct {
	Key  string
	Args []string
}

// Resolver performs longest-prefix option-key matching.
type Resolver struct {
	global  []string
	options map[string][]string
	keys    []string // sorted deepest-first for matching
}

// NewResolver parses the global and per-option argument strings. The defaults
// entry must be present (config injects it when omitted).
func NewResolver(globalArgs string, optionArgs map[string]string) (*Resolver, error) {
	global, err := SplitArgs(globalArgs)
	if err != nil {
		return nil, fmt.Errorf("global_args: %w", err)
	}
	parsed := make(map[string][]string, len(optionArgs))
	keys := make([]string, 0, len(optionArgs))
	for key, raw := range optionArgs {
		args, err := SplitArgs(raw)
		if err != nil {
			return nil, fmt.Errorf("conversion option %q: %w", key, err)
		}
		parsed[key] = args
		keys = append(keys, key)
	}
	if _, ok := parsed[DefaultsKey]; !ok {
		return nil, fmt.Errorf("conversion options missing %q entry", DefaultsKey)
	}

	// Deeper keys first; equal depth falls back to longer, then lexical, so
	// matching order is deterministic.
	sort.Slice(keys, func(i, j int) bool {
		di, dj := strings.Count(keys[i], "/"), strings.Count(keys[j], "/")
		if di != dj {
			return di > dj
		}
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &Resolver{global: global, options: parsed, keys: keys}, nil
}

// Resolve maps a file path relative to the video root onto an option key and
// returns the concatenated argument list. Unmatched paths use the defaults
// entry; global arguments always apply.
func (r *Resolver) Resolve(relPath string) Resolved {
	cleaned := path.Clean(strings.TrimPrefix(strings.ReplaceAll(relPath, "\\", "/"), "/"))
	key := DefaultsKey
	for _, candidate := range r.keys {
		if candidate == DefaultsKey {
			continue
		}
		if hasPathPrefix(cleaned, candidate) {
			key = candidate
			break
		}
	}
	return Resolved{Key: key, Args: r.argsFor(key)}
}

// ArgsFor returns the full argument list for a known option key.
func (r *Resolver) ArgsFor(key string) []string {
	if _, ok := r.options[key]; !ok {
		key = DefaultsKey
	}
	return r.argsFor(key)
}

func (r *Resolver) argsFor(key string) []string {
	option := r.options[key]
	combined := make([]string, 0, len(r.global)+len(option))
	combined = append(combined, r.global...)
	combined = append(combined, option...)
	return combined
}

// Keys returns the configured option keys, deepest-first.
func (r *Resolver) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// hasPathPrefix reports whether rel starts with prefix on a path-segment
// boundary, so quality/1080p does not match quality/1080p-extras.
func hasPathPrefix(rel, prefix string) bool {
	if !strings.HasPrefix(rel, prefix) {
		return false
	}
	return len(rel) == len(prefix) || rel[len(prefix)] == '/'
}

// SplitArgs splits an argument string on whitespace while honoring single and
// double quotes, the way the tool arguments are written in the config file.
func SplitArgs(raw string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		started bool
	)
	for _, r := range raw {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n':
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %q quote in %q", quote, raw)
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
