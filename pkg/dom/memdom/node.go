package memdom

import (
	"strings"

	"github.com/entrhq/unoverlay/pkg/dom"
)

// Box is an element's border box in viewport pixels.
type Box struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Node is a node of an in-memory document. Element nodes implement
// dom.Element; other kinds implement dom.Node.
type Node struct {
	kind     dom.NodeKind
	tag      string
	data     string
	id       string
	classes  []string
	parent   *Node
	children []*Node

	box    Box
	sheet  declarations
	inline declarations
}

var _ dom.Element = (*Node)(nil)

// Kind implements dom.Node.
func (n *Node) Kind() dom.NodeKind {
	return n.kind
}

// Parent implements dom.Node.
func (n *Node) Parent() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ChildNodes implements dom.Node.
func (n *Node) ChildNodes() []dom.Node {
	out := make([]dom.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// IsSameNode implements dom.Node.
func (n *Node) IsSameNode(other dom.Node) bool {
	o, ok := other.(*Node)
	return ok && o == n
}

// Tag returns the lower-case tag name of an element node.
func (n *Node) Tag() string {
	return n.tag
}

// Data returns the text of a text or comment node.
func (n *Node) Data() string {
	return n.data
}

// Box returns the element's layout box.
func (n *Node) Box() Box {
	return n.box
}

// SetBox replaces the element's layout box.
func (n *Node) SetBox(b Box) *Node {
	n.box = b
	return n
}

// SetID sets the id attribute.
func (n *Node) SetID(id string) *Node {
	n.id = id
	return n
}

// SetClass sets the class attribute.
func (n *Node) SetClass(class string) *Node {
	n.classes = strings.Fields(class)
	return n
}

// SetSheetStyle sets the declarations the element receives from style
// sheets. Inline declarations take precedence over them.
func (n *Node) SetSheetStyle(text string) *Node {
	n.sheet = parseDeclarations(text)
	return n
}

// AppendElement adds an element child with the given box and inline style
// and returns it.
func (n *Node) AppendElement(tag string, box Box, style string) *Node {
	child := &Node{
		kind:   dom.KindElement,
		tag:    strings.ToLower(tag),
		box:    box,
		inline: parseDeclarations(style),
	}
	n.appendChild(child)
	return child
}

// AppendText adds a text node child and returns n.
func (n *Node) AppendText(text string) *Node {
	n.appendChild(&Node{kind: dom.KindText, data: text})
	return n
}

// AppendComment adds a comment node child and returns n.
func (n *Node) AppendComment(text string) *Node {
	n.appendChild(&Node{kind: dom.KindComment, data: text})
	return n
}

func (n *Node) appendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// Size implements dom.Element. Elements that are not rendered report a zero
// size, like offsetWidth/offsetHeight.
func (n *Node) Size() (float64, float64) {
	if !n.rendered() {
		return 0, 0
	}
	return n.box.Width, n.box.Height
}

// ComputedStyle implements dom.Element.
func (n *Node) ComputedStyle(property string) string {
	if n.kind != dom.KindElement {
		return ""
	}
	property = strings.ToLower(property)

	value := n.cascaded(property)
	if property == "z-index" && !n.positioned() {
		return "auto"
	}
	if value == "" {
		value = initialValues[property]
	}
	return value
}

// StyleText implements dom.Element.
func (n *Node) StyleText() string {
	return n.inline.String()
}

// SetStyleText implements dom.Element.
func (n *Node) SetStyleText(text string) {
	n.inline = parseDeclarations(text)
}

// RemoveStyleProperty implements dom.Element.
func (n *Node) RemoveStyleProperty(property string) {
	n.inline.remove(strings.ToLower(property))
}

// Describe implements dom.Describer.
func (n *Node) Describe() string {
	switch n.kind {
	case dom.KindElement:
		label := n.tag
		if n.id != "" {
			label += "#" + n.id
		}
		for _, c := range n.classes {
			label += "." + c
		}
		return label
	case dom.KindDocument:
		return "#document"
	default:
		return "#" + n.kind.String()
	}
}

// cascaded resolves a property from the inline style and the sheet:
// important inline, important sheet, inline, sheet.
func (n *Node) cascaded(property string) string {
	inline, hasInline := n.inline.get(property)
	sheet, hasSheet := n.sheet.get(property)

	switch {
	case hasInline && inline.important:
		return inline.value
	case hasSheet && sheet.important:
		return sheet.value
	case hasInline:
		return inline.value
	case hasSheet:
		return sheet.value
	}
	return ""
}

func (n *Node) positioned() bool {
	pos := n.cascaded("position")
	return pos != "" && pos != "static"
}

// rendered reports whether neither the element nor any ancestor has
// display: none, and the element is attached to a document.
func (n *Node) rendered() bool {
	if n.kind != dom.KindElement {
		return false
	}
	cur := n
	for ; cur != nil && cur.kind == dom.KindElement; cur = cur.parent {
		if cur.ComputedStyle("display") == "none" {
			return false
		}
	}
	return cur != nil && cur.kind == dom.KindDocument
}

// stackingPath lists the z-index of every positioned, numerically indexed
// element from the root down to n.
func (n *Node) stackingPath() []int {
	var path []int
	for cur := n; cur != nil && cur.kind == dom.KindElement; cur = cur.parent {
		if z, ok := dom.StackIndex(cur); ok {
			path = append(path, z)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
