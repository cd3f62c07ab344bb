package memdom

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// declaration is a single "name: value [!important]" entry.
type declaration struct {
	name      string
	value     string
	important bool
}

// declarations is an ordered declaration block, at most one entry per
// property, serialized the way browsers serialize style.cssText.
type declarations []declaration

// parseDeclarations tokenizes a declaration block. Malformed entries are
// dropped, matching how browsers treat an invalid style attribute.
func parseDeclarations(text string) declarations {
	var out declarations
	for _, segment := range splitSegments(text) {
		if d, ok := parseDeclaration(segment); ok {
			out.set(d)
		}
	}
	return out
}

// splitSegments splits the token stream on top-level ';' characters.
func splitSegments(text string) [][]*scanner.Token {
	var (
		segments [][]*scanner.Token
		current  []*scanner.Token
		depth    int
	)

	s := scanner.New(text)
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		switch {
		case tok.Type == scanner.TokenComment:
			continue
		case tok.Type == scanner.TokenFunction:
			depth++
		case tok.Type == scanner.TokenChar && tok.Value == "(":
			depth++
		case tok.Type == scanner.TokenChar && tok.Value == ")" && depth > 0:
			depth--
		case tok.Type == scanner.TokenChar && tok.Value == ";" && depth == 0:
			segments = append(segments, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

func parseDeclaration(tokens []*scanner.Token) (declaration, bool) {
	colon := -1
	var name string
	for i, tok := range tokens {
		if tok.Type == scanner.TokenS {
			continue
		}
		if tok.Type == scanner.TokenChar && tok.Value == ":" {
			colon = i
			break
		}
		if tok.Type != scanner.TokenIdent || name != "" {
			return declaration{}, false
		}
		name = strings.ToLower(tok.Value)
	}
	if colon < 0 || name == "" {
		return declaration{}, false
	}

	valueTokens := tokens[colon+1:]
	important := false

	// Strip a trailing "! important".
	end := len(valueTokens)
	for end > 0 && valueTokens[end-1].Type == scanner.TokenS {
		end--
	}
	if end > 0 && valueTokens[end-1].Type == scanner.TokenIdent && strings.EqualFold(valueTokens[end-1].Value, "important") {
		bang := end - 2
		for bang >= 0 && valueTokens[bang].Type == scanner.TokenS {
			bang--
		}
		if bang >= 0 && valueTokens[bang].Type == scanner.TokenChar && valueTokens[bang].Value == "!" {
			important = true
			end = bang
		}
	}

	var b strings.Builder
	for _, tok := range valueTokens[:end] {
		if tok.Type == scanner.TokenS {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(tok.Value)
	}
	value := strings.Join(strings.Fields(b.String()), " ")
	if value == "" {
		return declaration{}, false
	}

	return declaration{name: name, value: value, important: important}, true
}

// set adds or replaces the declaration for d.name. A non-important value
// never overrides an important one already in the block.
func (ds *declarations) set(d declaration) {
	for i, existing := range *ds {
		if existing.name != d.name {
			continue
		}
		if existing.important && !d.important {
			return
		}
		(*ds)[i] = d
		return
	}
	*ds = append(*ds, d)
}

func (ds declarations) get(name string) (declaration, bool) {
	for _, d := range ds {
		if d.name == name {
			return d, true
		}
	}
	return declaration{}, false
}

func (ds *declarations) remove(name string) {
	out := (*ds)[:0]
	for _, d := range *ds {
		if d.name != name {
			out = append(out, d)
		}
	}
	*ds = out
}

// String serializes the block as "a: b; c: d !important;".
func (ds declarations) String() string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		entry := d.name + ": " + d.value
		if d.important {
			entry += " !important"
		}
		parts = append(parts, entry+";")
	}
	return strings.Join(parts, " ")
}

// initialValues are the computed values used when neither the inline style
// nor the base sheet declares a property.
var initialValues = map[string]string{
	"display":        "block",
	"position":       "static",
	"z-index":        "auto",
	"overflow":       "visible",
	"visibility":     "visible",
	"pointer-events": "auto",
	"opacity":        "1",
}
