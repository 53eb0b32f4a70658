// Package dag keeps the import graph of the documents taking part in one
// interpretation run. Each document is a node; an import adds an edge from
// the imported document to the importer. A cycle in the graph means the
// documents import each other and cannot be interpreted.
package dag
