// Package registry provides the central "glue" for the processor system.
//
// The Registry maps the names used in `$processor$` headers (e.g. "http") to
// the compiled Go functions that implement them. Modules add their processors
// through Register during application startup; the package manifest may then
// list the processors it relies on, and Validate checks that every one of
// them is available before any document is rendered.
package registry
