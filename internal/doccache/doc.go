// Package doccache stores the source text of documents fetched by the
// library, keyed by document id.
//
// # Implementations
//
//   - Memory: ephemeral, backed by sync.Map. Used for a single run.
//   - Bolt: persistent, backed by a bbolt file. Used with --cache-dir so
//     repeated runs skip reading unchanged documents.
//
// # Freshness
//
// An Entry records the path and modification time of the file it was read
// from. The cache does not judge freshness itself: the library compares the
// stored modification time with the file on disk and refetches when they
// differ.
package doccache
