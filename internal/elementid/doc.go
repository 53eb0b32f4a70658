// internal/elementid/doc.go

/*
Package elementid provides the identifiers of emitted elements.

A Path is the position of an element below the root of the tree, written as
comma-separated child indices, e.g. `0,1,0`. An element that declares an `id`
anchors its subtree: its own data-id is the id, and descendants are written
relative to it as `<anchor>:<path>`, e.g. `card:0,2`.

A Ref is the dotted id path of a `container:` section, e.g. `page.slot`,
naming an element by its public id and then descendants by theirs.
*/
package elementid
