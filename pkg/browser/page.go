package browser

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/unoverlay/pkg/dom"
)

// Page implements dom.Document over a live Playwright page.
type Page struct {
	page playwright.Page

	mu      sync.Mutex
	handles []playwright.JSHandle
	err     error
}

var _ dom.Document = (*Page)(nil)

func newPage(page playwright.Page) *Page {
	return &Page{page: page}
}

// Err returns the first query failure seen since the page was created.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Release disposes every handle the page handed out. Nodes obtained
// before Release must not be used afterwards.
func (p *Page) Release() {
	p.mu.Lock()
	handles := p.handles
	p.handles = nil
	p.mu.Unlock()

	for _, h := range handles {
		_ = h.Dispose()
	}
}

func (p *Page) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

func (p *Page) track(h playwright.JSHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handles = append(p.handles, h)
}

// nodeHandle evaluates expression on the page and wraps the node it
// returns, or returns nil when it yields null.
func (p *Page) nodeHandle(expression string, arg ...interface{}) *node {
	h, err := p.page.EvaluateHandle(expression, arg...)
	if err != nil {
		p.fail(fmt.Errorf("evaluate handle: %w", err))
		return nil
	}
	return p.wrap(h)
}

func (p *Page) wrap(h playwright.JSHandle) *node {
	if h == nil {
		return nil
	}
	p.track(h)
	kind, err := h.Evaluate(`n => (n && typeof n.nodeType === "number") ? n.nodeType : 0`)
	if err != nil {
		p.fail(fmt.Errorf("read node type: %w", err))
		return nil
	}
	nodeType := int(toFloat(kind))
	if nodeType == 0 {
		return nil
	}
	return &node{page: p, handle: h, kind: kindOf(nodeType)}
}

// ElementFromPoint hit-tests a viewport coordinate.
func (p *Page) ElementFromPoint(x, y float64) dom.Element {
	n := p.nodeHandle(`([x, y]) => document.elementFromPoint(x, y)`, []float64{x, y})
	if n == nil || n.kind != dom.KindElement {
		return nil
	}
	return n
}

// Viewport returns window.innerWidth and window.innerHeight.
func (p *Page) Viewport() (float64, float64) {
	v, err := p.page.Evaluate(`() => [window.innerWidth, window.innerHeight]`)
	if err != nil {
		p.fail(fmt.Errorf("read viewport: %w", err))
		return 0, 0
	}
	pair, _ := v.([]interface{})
	if len(pair) != 2 {
		return 0, 0
	}
	return toFloat(pair[0]), toFloat(pair[1])
}

// Root returns the document node.
func (p *Page) Root() dom.Node {
	if n := p.nodeHandle(`() => document`); n != nil {
		return n
	}
	return nil
}

// DocumentElement returns the <html> element.
func (p *Page) DocumentElement() dom.Element {
	if n := p.nodeHandle(`() => document.documentElement`); n != nil && n.kind == dom.KindElement {
		return n
	}
	return nil
}

// Body returns the body element.
func (p *Page) Body() dom.Element {
	if n := p.nodeHandle(`() => document.body`); n != nil && n.kind == dom.KindElement {
		return n
	}
	return nil
}

// node is a dom.Element over a JS handle. Non-element nodes use the same
// type and report empty element properties.
type node struct {
	page   *Page
	handle playwright.JSHandle
	kind   dom.NodeKind
}

var _ dom.Element = (*node)(nil)

func (n *node) evaluate(expression string, arg ...interface{}) (interface{}, bool) {
	v, err := n.handle.Evaluate(expression, arg...)
	if err != nil {
		n.page.fail(fmt.Errorf("evaluate: %w", err))
		return nil, false
	}
	return v, true
}

func (n *node) Kind() dom.NodeKind {
	return n.kind
}

func (n *node) Parent() dom.Node {
	h, err := n.handle.EvaluateHandle(`n => n.parentNode`)
	if err != nil {
		n.page.fail(fmt.Errorf("read parent: %w", err))
		return nil
	}
	if parent := n.page.wrap(h); parent != nil {
		return parent
	}
	return nil
}

func (n *node) ChildNodes() []dom.Node {
	h, err := n.handle.EvaluateHandle(`n => Array.from(n.childNodes)`)
	if err != nil {
		n.page.fail(fmt.Errorf("read children: %w", err))
		return nil
	}
	n.page.track(h)

	props, err := h.GetProperties()
	if err != nil {
		n.page.fail(fmt.Errorf("read children: %w", err))
		return nil
	}

	var children []dom.Node
	for _, ch := range indexedHandles(props) {
		if child := n.page.wrap(ch); child != nil {
			children = append(children, child)
		}
	}
	return children
}

func (n *node) IsSameNode(other dom.Node) bool {
	o, ok := other.(*node)
	if !ok || o == nil {
		return false
	}
	if o == n {
		return true
	}
	v, ok := n.evaluate(`(n, other) => n === other`, o.handle)
	same, _ := v.(bool)
	return ok && same
}

func (n *node) Size() (float64, float64) {
	if n.kind != dom.KindElement {
		return 0, 0
	}
	v, ok := n.evaluate(`n => [n.offsetWidth || 0, n.offsetHeight || 0]`)
	if !ok {
		return 0, 0
	}
	pair, _ := v.([]interface{})
	if len(pair) != 2 {
		return 0, 0
	}
	return toFloat(pair[0]), toFloat(pair[1])
}

func (n *node) ComputedStyle(property string) string {
	if n.kind != dom.KindElement {
		return ""
	}
	v, _ := n.evaluate(`(n, p) => getComputedStyle(n).getPropertyValue(p)`, property)
	s, _ := v.(string)
	return s
}

func (n *node) StyleText() string {
	if n.kind != dom.KindElement {
		return ""
	}
	v, _ := n.evaluate(`n => n.style ? n.style.cssText : ""`)
	s, _ := v.(string)
	return s
}

func (n *node) SetStyleText(text string) {
	if n.kind != dom.KindElement {
		return
	}
	n.evaluate(`(n, text) => { if (n.style) n.style.cssText = text; }`, text)
}

func (n *node) RemoveStyleProperty(property string) {
	if n.kind != dom.KindElement {
		return
	}
	n.evaluate(`(n, p) => { if (n.style) n.style.removeProperty(p); }`, property)
}

// Describe renders "tag#id.class" for debug traces.
func (n *node) Describe() string {
	if n.kind != dom.KindElement {
		return n.kind.String()
	}
	v, _ := n.evaluate(`n => {
		let s = n.tagName.toLowerCase();
		if (n.id) s += "#" + n.id;
		for (const c of n.classList) s += "." + c;
		return s;
	}`)
	s, _ := v.(string)
	return s
}

// kindOf maps a DOM nodeType to a NodeKind.
func kindOf(nodeType int) dom.NodeKind {
	switch nodeType {
	case 1:
		return dom.KindElement
	case 3:
		return dom.KindText
	case 8:
		return dom.KindComment
	case 9:
		return dom.KindDocument
	default:
		return dom.KindOther
	}
}

// indexedHandles returns the array elements of props in index order,
// skipping non-index properties.
func indexedHandles(props map[string]playwright.JSHandle) []playwright.JSHandle {
	type entry struct {
		index  int
		handle playwright.JSHandle
	}
	entries := make([]entry, 0, len(props))
	for key, h := range props {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			continue
		}
		entries = append(entries, entry{index: i, handle: h})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].index < entries[b].index })

	out := make([]playwright.JSHandle, len(entries))
	for i, e := range entries {
		out[i] = e.handle
	}
	return out
}

// toFloat converts a number decoded from the page. Playwright returns
// integral values as int and the rest as float64.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}
