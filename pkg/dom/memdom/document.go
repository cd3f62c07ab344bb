// Package memdom is an in-memory document tree with explicit geometry, a
// small computed-style resolver and a paint-order hit test. It implements
// the dom interfaces so the overlay remover can run without a browser, on
// hand-built trees in tests or on HTML snapshots loaded with ParseHTML.
package memdom

import (
	"github.com/entrhq/unoverlay/pkg/dom"
)

// Document is an in-memory document. The zero value is not usable; create
// documents with New or ParseHTML.
type Document struct {
	root   *Node
	html   *Node
	body   *Node
	width  float64
	height float64
}

var _ dom.Document = (*Document)(nil)

// New creates an empty document (<html><body></body></html>) whose root
// element and body cover a width x height viewport.
func New(width, height float64) *Document {
	viewport := Box{Width: width, Height: height}

	root := &Node{kind: dom.KindDocument}
	html := &Node{kind: dom.KindElement, tag: "html", box: viewport}
	body := &Node{kind: dom.KindElement, tag: "body", box: viewport}
	root.appendChild(html)
	html.appendChild(body)

	return &Document{
		root:   root,
		html:   html,
		body:   body,
		width:  width,
		height: height,
	}
}

// HTML returns the root element node.
func (d *Document) HTML() *Node {
	return d.html
}

// BodyNode returns the body element node.
func (d *Document) BodyNode() *Node {
	return d.body
}

// Root implements dom.Document.
func (d *Document) Root() dom.Node {
	return d.root
}

// DocumentElement implements dom.Document.
func (d *Document) DocumentElement() dom.Element {
	if d.html == nil {
		return nil
	}
	return d.html
}

// Body implements dom.Document.
func (d *Document) Body() dom.Element {
	if d.body == nil {
		return nil
	}
	return d.body
}

// Viewport implements dom.Document.
func (d *Document) Viewport() (float64, float64) {
	return d.width, d.height
}

// ElementFromPoint implements dom.Document. Among the rendered elements
// whose box contains the point it returns the one painted last: elements
// are ordered by the z-indexes of their positioned ancestors (compared
// level by level, missing levels counting as 0) and then by document
// order.
func (d *Document) ElementFromPoint(x, y float64) dom.Element {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return nil
	}

	var (
		best     *Node
		bestPath []int
	)
	d.walkRendered(func(n *Node) {
		if n.box.Width <= 0 || n.box.Height <= 0 || !n.box.Contains(x, y) {
			return
		}
		if !hitTestable(n) {
			return
		}
		path := n.stackingPath()
		if best == nil || comparePaths(path, bestPath) >= 0 {
			best, bestPath = n, path
		}
	})

	if best == nil {
		return nil
	}
	return best
}

// Elements returns every element of the document in document order.
func (d *Document) Elements() []*Node {
	var out []*Node
	stack := []*Node{d.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.kind == dom.KindElement {
			out = append(out, n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return out
}

// GetElementByID returns the first element with the given id.
func (d *Document) GetElementByID(id string) *Node {
	for _, n := range d.Elements() {
		if n.id == id {
			return n
		}
	}
	return nil
}

// walkRendered visits rendered elements in document order, pruning
// subtrees with display: none.
func (d *Document) walkRendered(fn func(*Node)) {
	stack := []*Node{d.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.kind == dom.KindElement {
			if n.ComputedStyle("display") == "none" {
				continue
			}
			fn(n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			if n.children[i].kind == dom.KindElement || n.children[i].kind == dom.KindDocument {
				stack = append(stack, n.children[i])
			}
		}
	}
}

func hitTestable(n *Node) bool {
	return inherited(n, "pointer-events") != "none" && !isHidden(inherited(n, "visibility"))
}

// inherited resolves an inherited property: the nearest declaration on n or
// one of its ancestors wins.
func inherited(n *Node, property string) string {
	for cur := n; cur != nil && cur.kind == dom.KindElement; cur = cur.parent {
		if v := cur.cascaded(property); v != "" {
			return v
		}
	}
	return ""
}

func isHidden(visibility string) bool {
	return visibility == "hidden" || visibility == "collapse"
}

// comparePaths orders two stacking paths, returning -1, 0 or 1.
func comparePaths(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var za, zb int
		if i < len(a) {
			za = a[i]
		}
		if i < len(b) {
			zb = b[i]
		}
		switch {
		case za < zb:
			return -1
		case za > zb:
			return 1
		}
	}
	return 0
}
