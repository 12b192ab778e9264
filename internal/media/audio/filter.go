// Package audio applies the audio-stream language policy to probed media.
//
// The main (default) audio track is always kept untouched. Extra streams are
// admissible when their language is English or unmarked; with require_english
// enabled, everything else is dropped from the generated track arguments and
// logged, rather than failing the file. The policy scopes to extra streams
// only, so a rejection never routes a file to the failed directory.
package audio

import (
	"fmt"
	"strings"

	"hopper/internal/language"
	"hopper/internal/media/ffprobe"
	"hopper/internal/services"
)

// Decision records the disposition of a single audio stream.
type Decision struct {
	StreamIndex int    // container stream index
	Track       int    // 1-based audio track number, tool convention
	Title       string
	Language    string // ISO 639-1 when recognized, raw tag otherwise, empty when unmarked
	Default     bool
	Keep        bool
	Reason      string
	Err         error // tagged services.ErrPolicy when the stream is dropped
}

// Plan is the per-file outcome of the language policy.
type Plan struct {
	Decisions []Decision
}

// BuildPlan classifies every audio stream in the probe result. The default
// track (the stream flagged default, else the first audio stream) is kept and
// excluded from extra-track handling. When requireEnglish is set, extra
// streams must carry an English or blank language marker; the stream title is
// consulted when the language tag is missing.
func BuildPlan(result ffprobe.Result, requireEnglish bool) Plan {
	streams := result.AudioStreams()
	if len(streams) == 0 {
		return Plan{}
	}

	defaultIdx := 0
	for i, stream := range streams {
		if stream.Disposition.Default == 1 {
			defaultIdx = i
			break
		}
	}

	decisions := make([]Decision, 0, len(streams))
	for i, stream := range streams {
		title := strings.TrimSpace(stream.Tags["title"])
		lang := language.ExtractFromTags(stream.Tags)
		if lang == "" {
			// Correlate the title to a language name when the tag is absent.
			lang = language.FromTitle(title)
		}
		marker := language.ToISO2(lang)
		if marker == "" {
			// Unrecognized tags stay raw: any non-blank marker that is not
			// English must be rejectable.
			marker = lang
		}

		decision := Decision{
			StreamIndex: stream.Index,
			Track:       i + 1,
			Title:       title,
			Language:    marker,
			Default:     i == defaultIdx,
		}
		switch {
		case decision.Default:
			decision.Keep = true
		case !requireEnglish:
			decision.Keep = true
		case marker == "en" || marker == "":
			decision.Keep = true
		default:
			decision.Keep = false
			decision.Reason = fmt.Sprintf("non-english extra stream (%s)", language.DisplayName(marker))
			decision.Err = services.Wrap(services.ErrPolicy, "audio", "language policy", decision.Reason, nil)
		}
		decisions = append(decisions, decision)
	}
	return Plan{Decisions: decisions}
}

// Dropped returns the extra streams excluded by the policy.
func (p Plan) Dropped() []Decision {
	var dropped []Decision
	for _, d := range p.Decisions {
		if !d.Keep {
			dropped = append(dropped, d)
		}
	}
	return dropped
}

// ExtraTrackArgs renders the kept extra (non-default) streams as tool
// arguments of the form "--add-audio N=Title". Quotes are stripped from
// titles so the argument list stays well formed.
func (p Plan) ExtraTrackArgs() []string {
	var args []string
	for _, d := range p.Decisions {
		if d.Default || !d.Keep {
			continue
		}
		title := strings.ReplaceAll(d.Title, `"`, "")
		if title == "" {
			title = language.DisplayName(d.Language)
		}
		args = append(args, "--add-audio", fmt.Sprintf("%d=%s", d.Track, title))
	}
	return args
}
