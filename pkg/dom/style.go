package dom

import (
	"math"
	"strings"
)

// Hide forces the element out of the layout with display: none. It wins over
// declarations the page marked !important and is idempotent.
func Hide(el Element) {
	ForceStyle(el, "display", "none")
}

// ForceStyle sets property to value on the element's inline style with
// !important priority. Existing declarations are kept; only an earlier
// declaration of the same property is cleared first.
func ForceStyle(el Element, property, value string) {
	if el == nil {
		return
	}
	el.RemoveStyleProperty(property)
	el.SetStyleText(AppendImportant(el.StyleText(), property, value))
}

// AppendImportant appends "property: value !important;" to a cssText string,
// inserting a single ";" separator when the text does not already end with
// one.
func AppendImportant(cssText, property, value string) string {
	if len(cssText) > 0 && !strings.HasSuffix(cssText, ";") {
		cssText += ";"
	}
	return cssText + property + ": " + value + " !important;"
}

// IsVisible reports whether the element has a non-zero rendered box.
func IsVisible(el Element) bool {
	if el == nil {
		return false
	}
	w, h := el.Size()
	return w > 0 && h > 0
}

// StackIndex returns the element's computed z-index. The boolean is false
// when the value is auto, missing or otherwise not a number.
func StackIndex(el Element) (int, bool) {
	if el == nil {
		return 0, false
	}
	return parseInt(el.ComputedStyle("z-index"))
}

// HasPositiveStackIndex is the predicate the remover uses to collect overlay
// ancestors.
func HasPositiveStackIndex(el Element) bool {
	z, ok := StackIndex(el)
	return ok && z > 0
}

// parseInt reads a leading decimal integer the way JavaScript's parseInt
// does: surrounding whitespace and trailing garbage are ignored. Values are
// clamped to the 32-bit range browsers store z-index in.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n int64
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n <= math.MaxInt32 {
			n = n*10 + int64(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	} else if n < math.MinInt32 {
		n = math.MinInt32
	}
	return int(n), true
}
