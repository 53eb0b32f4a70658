// Package config defines the format-agnostic package manifest model and the
// Loader interface that produces it.
//
// A manifest names the package, the endpoints of the package and its
// dependencies, the directories documents are looked up in, and the
// processors its documents expect. Concrete loaders, such as the HCL one,
// live in separate packages.
package config
