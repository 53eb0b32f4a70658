// internal/elementid/types.go
package elementid

// Root is the data-id of the root column of every tree.
const Root = "main"

// Path is a sequence of child indices from an anchor.
type Path []int

// Ref is a parsed `container:` id path.
type Ref struct {
	// Main is set for `ftd.main`, the root of the tree.
	Main bool
	IDs  []string
}
