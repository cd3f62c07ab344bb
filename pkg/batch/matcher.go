package batch

import (
	"fmt"

	"github.com/gobwas/glob"
)

// URLMatcher decides which URL targets a job may visit.
type URLMatcher struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewURLMatcher compiles the allow and deny patterns. '/' is the only
// separator: "*" stays within the host or one path segment, "**" crosses
// segments.
func NewURLMatcher(allowed, denied []string) (*URLMatcher, error) {
	m := &URLMatcher{}

	for _, pattern := range allowed {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid allowed pattern '%s': %w", pattern, err)
		}
		m.allowed = append(m.allowed, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid denied pattern '%s': %w", pattern, err)
		}
		m.denied = append(m.denied, g)
	}

	return m, nil
}

// IsAllowed returns true if the URL passes the pattern rules
func (m *URLMatcher) IsAllowed(url string) bool {
	// Denied patterns take precedence
	for _, pattern := range m.denied {
		if pattern.Match(url) {
			return false
		}
	}

	if len(m.allowed) == 0 {
		return true
	}

	for _, pattern := range m.allowed {
		if pattern.Match(url) {
			return true
		}
	}

	return false
}
