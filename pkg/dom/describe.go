package dom

// Describer is implemented by elements that can render a short, human
// readable label such as "div#consent.modal".
type Describer interface {
	Describe() string
}

// Describe returns a label for el, falling back to its node kind when the
// backend does not implement Describer.
func Describe(el Element) string {
	if el == nil {
		return "<nil>"
	}
	if d, ok := el.(Describer); ok {
		if s := d.Describe(); s != "" {
			return s
		}
	}
	return el.Kind().String()
}
