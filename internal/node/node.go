package node

import "github.com/specialistvlad/ftdgo/internal/executor"

// Node is a renderer-facing element.
type Node struct {
	Kind      string            `json:"node" yaml:"node"`
	Attrs     map[string]string `json:"attrs" yaml:"attrs"`
	Style     map[string]string `json:"style" yaml:"style"`
	DarkStyle map[string]string `json:"dark-style,omitempty" yaml:"dark-style,omitempty"`
	Classes   []string          `json:"classes,omitempty" yaml:"classes,omitempty"`
	Events    []executor.Event  `json:"events,omitempty" yaml:"events,omitempty"`
	Text      *string           `json:"text,omitempty" yaml:"text,omitempty"`
	Children  []*Node           `json:"children,omitempty" yaml:"children,omitempty"`
	Null      bool              `json:"null,omitempty" yaml:"null,omitempty"`
}

func newNode(kind string, c *executor.Common) *Node {
	return &Node{
		Kind:   kind,
		Attrs:  map[string]string{"data-id": c.DataID},
		Style:  map[string]string{},
		Events: c.Events,
	}
}

func (n *Node) setText(s string) {
	n.Text = &s
}

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
