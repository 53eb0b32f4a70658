// Package diag defines the error kinds surfaced while reading, interpreting
// and executing documents. Every error carries the document id and the line
// it was raised at, and can be rendered as an hcl.Diagnostic with a source
// snippet for terminal output.
package diag
