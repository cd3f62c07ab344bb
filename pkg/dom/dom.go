// Package dom provides the primitive, stateless operations the overlay
// remover performs on a page's element tree.
//
// The tree itself is owned by a host (a live browser page or an in-memory
// snapshot) and is reached only through the Node, Element and Document
// interfaces declared here. Operations in this package never keep state
// between calls: every side effect lands on the node that was passed in.
package dom

// NodeKind identifies the kind of a node in the document tree.
type NodeKind int

const (
	// KindOther covers node kinds the remover never inspects (doctype, CDATA).
	KindOther NodeKind = iota
	// KindElement is an element node (nodeType 1).
	KindElement
	// KindText is a text node (nodeType 3).
	KindText
	// KindComment is a comment node (nodeType 8).
	KindComment
	// KindDocument is the document node (nodeType 9).
	KindDocument
)

// String returns a short name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindDocument:
		return "document"
	default:
		return "other"
	}
}

// Node is any node of the document tree.
type Node interface {
	// Kind reports the node kind.
	Kind() NodeKind

	// Parent returns the parent node, or nil for the document node and
	// detached nodes.
	Parent() Node

	// ChildNodes returns every child node (elements, text, comments) in
	// document order.
	ChildNodes() []Node

	// IsSameNode reports whether other refers to the same node.
	IsSameNode(other Node) bool
}

// Element is a handle on an element node.
//
// Implementations degrade instead of failing: a handle whose backing node
// can no longer be queried reports a zero size, empty styles and no
// children.
type Element interface {
	Node

	// Size returns the rendered width and height in CSS pixels
	// (offsetWidth and offsetHeight).
	Size() (width, height float64)

	// ComputedStyle returns the resolved value of a CSS property, or the
	// empty string when no computed style is available.
	ComputedStyle(property string) string

	// StyleText returns the inline style declarations (style.cssText).
	StyleText() string

	// SetStyleText replaces the inline style declarations.
	SetStyleText(text string)

	// RemoveStyleProperty clears one property from the inline style.
	RemoveStyleProperty(property string)
}

// Document is the host document the remover operates on.
type Document interface {
	// ElementFromPoint hit-tests a viewport coordinate and returns the
	// topmost element rendered there, or nil.
	ElementFromPoint(x, y float64) Element

	// Viewport returns the inner width and height of the window.
	Viewport() (width, height float64)

	// Root returns the document node.
	Root() Node

	// DocumentElement returns the root element (<html>), or nil.
	DocumentElement() Element

	// Body returns the body element, or nil.
	Body() Element
}

// AsElement returns n as an Element when it is an element node.
func AsElement(n Node) (Element, bool) {
	if n == nil || n.Kind() != KindElement {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}
