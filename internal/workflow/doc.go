// Package workflow drives the orchestration loop: scan every conversion
// option's input tree, advance each candidate through stability, the
// free-space gate, option resolution, audio-policy filtering, the external
// tool, output validation, and the final directory moves.
//
// The loop holds no durable state. Every pass re-derives its worklist from
// directory contents, so restarts and crashes resume by rescanning. Per-file
// errors are isolated: one failing file routes to the failed directory while
// the rest of the pass continues.
package workflow
