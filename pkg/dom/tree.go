package dom

// IsElementNode reports whether n is an element (text and comment nodes are
// not).
func IsElementNode(n Node) bool {
	return n != nil && n.Kind() == KindElement
}

// ForEachElementChild calls fn for every element in nodes, in order,
// skipping every other node kind.
func ForEachElementChild(nodes []Node, fn func(Element)) {
	for _, n := range nodes {
		if el, ok := AsElement(n); ok {
			fn(el)
		}
	}
}

// elementsOf filters nodes down to its element entries.
func elementsOf(nodes []Node) []Element {
	var out []Element
	ForEachElementChild(nodes, func(el Element) {
		out = append(out, el)
	})
	return out
}

// AncestorsMatching walks from el up through its parents and returns every
// element, el included, that satisfies pred. The walk stops before the
// document node and before body; neither they nor the root element are
// ever returned. Results are ordered nearest first.
func AncestorsMatching(doc Document, el Element, pred func(Element) bool) []Element {
	if el == nil {
		return nil
	}

	root := doc.Root()
	body := doc.Body()
	docEl := doc.DocumentElement()

	isBoundary := func(n Node) bool {
		return (root != nil && n.IsSameNode(root)) || (body != nil && n.IsSameNode(body))
	}
	isWrapper := func(n Node) bool {
		return isBoundary(n) || (docEl != nil && n.IsSameNode(docEl))
	}

	var matched []Element
	var current Node = el
	for current != nil {
		if cur, ok := AsElement(current); ok && !isWrapper(cur) && pred(cur) {
			matched = append(matched, cur)
		}

		parent := current.Parent()
		if parent == nil || isBoundary(parent) {
			break
		}
		current = parent
	}
	return matched
}

// SubtreeWeight estimates how many nodes sit under el, stopping as soon as
// the running total reaches maxThreshold.
//
// Each step counts the child nodes of the current element plus the child
// nodes of each of its element children, then queues those grandchild
// elements. The next element to expand is taken from the end of the queue,
// so expansion runs depth first through the most recently queued branch.
func SubtreeWeight(el Element, maxThreshold int) int {
	total := 0
	var pending []Element

	for next := el; next != nil; {
		children := next.ChildNodes()
		step := len(children)
		ForEachElementChild(children, func(child Element) {
			grandChildren := child.ChildNodes()
			step += len(grandChildren)
			pending = append(pending, elementsOf(grandChildren)...)
		})
		total += step

		if total >= maxThreshold {
			break
		}

		next = nil
		if n := len(pending); n > 0 {
			next = pending[n-1]
			pending = pending[:n-1]
		}
	}
	return total
}
