package dag

import (
	"strings"
	"sync"
)

// Graph is a collection of documents and their imports.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by document id.
	nodes map[string]*node
}

// node is a single document. It is un-exported to enforce interaction with
// the graph via document ids.
type node struct {
	// id is the document id.
	id string
	// deps holds the documents this document imports.
	deps map[string]*node
	// dependents holds the documents importing this document.
	dependents map[string]*node
}

// CycleError reports documents that import each other. Path starts and ends
// with the same document.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "import cycle detected: " + strings.Join(e.Path, " -> ")
}
