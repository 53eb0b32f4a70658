// Package node converts an element tree into the HTML-shaped tree a renderer
// consumes: a tag, attributes, inline styles, classes, events, text and
// children per element.
//
// Every node carries its element's `data-id` attribute. Invisible elements
// get `display: none`, Null elements become null nodes so that sibling
// indices match the element tree. Colors are emitted for the light scheme in
// Style and, where the dark variant differs, in DarkStyle.
package node
