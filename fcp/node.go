package fcp

import "encoding/xml"

// Node is a generic FCPXML element. The parser keeps the whole tree so that
// clips can be found at any depth (spine, nested sequences, connected
// storylines) without a struct per element kind.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Node    `xml:",any"`
}

func (n *Node) Name() string {
	return n.XMLName.Local
}

// Attr returns the value of the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or fallback when it is absent.
func (n *Node) AttrOr(name, fallback string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return fallback
}

// Child returns the first direct child with the given element name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given element name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants in document order. ancestors holds the
// path from the root to the visited node's parent.
func (n *Node) Walk(fn func(node *Node, ancestors []*Node)) {
	n.walk(nil, fn)
}

func (n *Node) walk(ancestors []*Node, fn func(*Node, []*Node)) {
	fn(n, ancestors)
	path := append(ancestors[:len(ancestors):len(ancestors)], n)
	for _, c := range n.Children {
		c.walk(path, fn)
	}
}

// Find returns every node named name in document order.
func (n *Node) Find(name string) []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ []*Node) {
		if node.Name() == name {
			out = append(out, node)
		}
	})
	return out
}
