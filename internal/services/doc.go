// Package services defines the shared error taxonomy for pipeline stages.
//
// Stage code wraps failures with a sentinel marker (external tool,
// validation, configuration, policy, timeout, transient) plus stage and
// operation context; the orchestrator maps markers to a lifecycle
// disposition without parsing strings.
package services
