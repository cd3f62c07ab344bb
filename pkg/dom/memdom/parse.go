package memdom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/entrhq/unoverlay/pkg/dom"
	"golang.org/x/net/html"
)

// ParseHTML loads an HTML snapshot into a document laid out for a
// width x height viewport.
//
// There is no layout engine: boxes come from the inline left, top, right,
// bottom, width, height and inset declarations (px or % of the containing
// box). Missing sizes fill the containing box. The containing box is the
// viewport for the root, for body and for position: fixed elements, and
// the parent's box otherwise.
func ParseHTML(r io.Reader, width, height float64) (*Document, error) {
	parsed, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc := &Document{
		root:   &Node{kind: dom.KindDocument},
		width:  width,
		height: height,
	}

	for c := parsed.FirstChild; c != nil; c = c.NextSibling {
		convertNode(c, doc.root)
	}

	for _, n := range doc.root.children {
		if n.kind == dom.KindElement && n.tag == "html" {
			doc.html = n
			break
		}
	}
	if doc.html == nil {
		return nil, fmt.Errorf("no root element found")
	}
	for _, n := range doc.html.children {
		if n.kind == dom.KindElement && n.tag == "body" {
			doc.body = n
			break
		}
	}

	viewport := Box{Width: width, Height: height}
	layout(doc.html, viewport, viewport)
	return doc, nil
}

// convertNode copies an html.Node subtree under parent.
func convertNode(src *html.Node, parent *Node) {
	switch src.Type {
	case html.TextNode:
		parent.AppendText(src.Data)
		return
	case html.CommentNode:
		parent.AppendComment(src.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	tag := strings.ToLower(src.Data)
	if isSkippedElement(tag) {
		return
	}

	el := parent.AppendElement(tag, Box{}, attr(src, "style"))
	el.SetID(attr(src, "id"))
	el.SetClass(attr(src, "class"))
	if isUnrenderedElement(tag) {
		el.SetSheetStyle("display: none")
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		convertNode(c, el)
	}
}

// isSkippedElement returns true for elements that never take part in
// layout and are left out of the snapshot.
func isSkippedElement(tagName string) bool {
	skipped := map[string]bool{
		"script":   true,
		"style":    true,
		"noscript": true,
		"template": true,
	}
	return skipped[tagName]
}

// isUnrenderedElement returns true for elements kept in the tree but
// displayed as none by the user agent sheet.
func isUnrenderedElement(tagName string) bool {
	switch tagName {
	case "head", "title", "meta", "link", "base":
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// layout assigns boxes to el and its element descendants.
func layout(el *Node, containing, viewport Box) {
	switch {
	case el.tag == "html" || el.tag == "body":
		el.box = viewport
	case el.cascaded("position") == "fixed":
		el.box = placeBox(el, viewport)
	default:
		el.box = placeBox(el, containing)
	}

	for _, c := range el.children {
		if c.kind == dom.KindElement {
			layout(c, el.box, viewport)
		}
	}
}

// placeBox resolves the element's offsets and size against cb.
func placeBox(el *Node, cb Box) Box {
	top, right, bottom, left := insetValues(el.cascaded("inset"))
	if v := el.cascaded("top"); v != "" {
		top = v
	}
	if v := el.cascaded("right"); v != "" {
		right = v
	}
	if v := el.cascaded("bottom"); v != "" {
		bottom = v
	}
	if v := el.cascaded("left"); v != "" {
		left = v
	}

	x, w := placeAxis(left, right, el.cascaded("width"), cb.Width)
	y, h := placeAxis(top, bottom, el.cascaded("height"), cb.Height)
	return Box{X: cb.X + x, Y: cb.Y + y, Width: w, Height: h}
}

// placeAxis returns the offset and size along one axis.
func placeAxis(startValue, endValue, sizeValue string, extent float64) (float64, float64) {
	start, hasStart := resolveLength(startValue, extent)
	end, hasEnd := resolveLength(endValue, extent)
	size, hasSize := resolveLength(sizeValue, extent)

	switch {
	case hasSize && hasStart:
		return start, size
	case hasSize && hasEnd:
		return extent - end - size, size
	case hasSize:
		return 0, size
	case hasStart && hasEnd:
		return start, clampZero(extent - start - end)
	case hasStart:
		return start, clampZero(extent - start)
	case hasEnd:
		return 0, clampZero(extent - end)
	}
	return 0, extent
}

// insetValues expands the inset shorthand (one to four values) into
// top, right, bottom, left.
func insetValues(value string) (string, string, string, string) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		return parts[0], parts[0], parts[0], parts[0]
	case 2:
		return parts[0], parts[1], parts[0], parts[1]
	case 3:
		return parts[0], parts[1], parts[2], parts[1]
	case 4:
		return parts[0], parts[1], parts[2], parts[3]
	}
	return "", "", "", ""
}

// resolveLength converts "12px", "50%", "0" or a bare number to pixels.
// Anything else, auto included, is reported as unset.
func resolveLength(value string, reference float64) (float64, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch {
	case value == "" || value == "auto":
		return 0, false
	case strings.HasSuffix(value, "%"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return 0, false
		}
		return reference * f / 100, true
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "vw"), strings.HasSuffix(value, "vh"):
		// Viewport units are treated as percentages of the containing box.
		f, err := strconv.ParseFloat(value[:len(value)-2], 64)
		if err != nil {
			return 0, false
		}
		return reference * f / 100, true
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func clampZero(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
