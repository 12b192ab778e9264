// Package language provides unified language code normalization and mapping.
//
// All language-related conversions (ISO 639-1/639-2 codes, display names,
// tag extraction, title inference) are consolidated here so the audio stream
// filter has a single source of truth.
package language
