// Package library provides the interpreter.Library used by the application.
//
// Documents are looked up by id in the package's document roots: `a/b` is
// read from `a/b.ftd`, or from `a/b/index.ftd`. Ids may carry the package
// name as a prefix. Fetched sources are kept in a doccache.Cache, and
// concurrent fetches of the same id share one read.
//
// Processor sections are dispatched to the registry by their `$processor$`
// header.
package library
