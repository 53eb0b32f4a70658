// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package interpreter turns the sections of a document, and of every document
// it imports, into a typed bag of declarations plus the ordered list of
// top-level invocations of the main document.
//
// # Core Concepts
//
//   - Kind: a static type descriptor. Every Reference carries the Kind it was
//     declared with, and every assignment point checks assignability.
//
//   - Value and PropertyValue: a Value is a runtime instance of a Kind. A
//     PropertyValue is lazy: a literal Value, a Reference to a Variable in the
//     bag, or a Variable bound in the current argument or loop scope.
//
//   - Thing: an entry in the bag, keyed by `<document>#<name>`. Variables,
//     records, or-types (and each of their variants) and component definitions
//     are things.
//
//   - TDoc: the view of one document during interpretation. It owns the alias
//     map used to resolve dotted names and shares the bag with every other
//     document of the same run.
//
// The driver never runs user code. It resolves imports depth-first through a
// Library, asks the Library to run `$processor$` sections, and records every
// declaration in source order.
package interpreter
