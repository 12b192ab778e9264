package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks a non-zero exit or unusable output from the
	// transcoding tool or ffprobe.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks output that exists but fails well-formedness checks.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks startup problems; the process refuses to run.
	ErrConfiguration = errors.New("configuration error")
	// ErrPolicy marks an audio-language policy violation.
	ErrPolicy = errors.New("policy rejection")
	// ErrTimeout marks a tool invocation that exceeded its ceiling.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks conditions retried on a later pass.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later disposition. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Disposition describes what the orchestrator should do with a file after a
// stage error.
type Disposition int

const (
	// DispositionRetry leaves the file in the input directory for the next
	// pass.
	DispositionRetry Disposition = iota
	// DispositionFail routes the original to the failed-originals directory.
	DispositionFail
)

// Disposer maps a stage error to its lifecycle disposition. Transient
// conditions are retried; everything else is a terminal failure for the file.
func Disposer(err error) Disposition {
	if errors.Is(err, ErrTransient) {
		return DispositionRetry
	}
	return DispositionFail
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
