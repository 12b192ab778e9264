// Package deps reports availability of the external binaries hopper shells
// out to. Nothing here is fatal; the daemon logs what is missing and the
// deps command renders the same information for operators.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"hopper/internal/config"
)

// Requirement defines an external binary hopper relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// Requirements lists the binaries the configured pipeline invokes.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "transcoding tool",
			Command:     cfg.ToolBinary,
			Description: "external transcoder run once per input file",
		},
		{
			Name:        "ffprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "media inspection and output validation",
		},
	}
}

// Check evaluates every configured requirement against PATH.
func Check(cfg *config.Config) []Status {
	return CheckBinaries(Requirements(cfg))
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		status.Command = cmd
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}
