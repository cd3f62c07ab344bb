package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	defaultBrowserHeadless = true
	defaultViewportWidth   = 1280
	defaultViewportHeight  = 720
	defaultWaitUntil       = "load"
	defaultBrowserTimeout  = 30 * time.Second
)

// BrowserSection holds settings of the Playwright browser used for live
// pages.
type BrowserSection struct {
	Headless       bool          `json:"headless"`
	ViewportWidth  int           `json:"viewport_width"`
	ViewportHeight int           `json:"viewport_height"`
	WaitUntil      string        `json:"wait_until"`
	Timeout        time.Duration `json:"timeout"`
	mu             sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		Headless:       defaultBrowserHeadless,
		ViewportWidth:  defaultViewportWidth,
		ViewportHeight: defaultViewportHeight,
		WaitUntil:      defaultWaitUntil,
		Timeout:        defaultBrowserTimeout,
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Headless mode, viewport size and navigation behaviour of the browser session."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"wait_until":      s.WaitUntil,
		"timeout":         s.Timeout.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "headless":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			s.Headless = enabled

		case "viewport_width", "viewport_height":
			n, err := toInt(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if key == "viewport_width" {
				s.ViewportWidth = n
			} else {
				s.ViewportHeight = n
			}

		case "wait_until":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for wait_until: expected string, got %T", value)
			}
			s.WaitUntil = str

		case "timeout":
			// Handle both string and numeric duration values
			switch v := value.(type) {
			case string:
				d, err := time.ParseDuration(v)
				if err != nil {
					return fmt.Errorf("invalid duration string for timeout: %w", err)
				}
				s.Timeout = d
			case float64:
				// JSON numbers come as float64 and count milliseconds
				s.Timeout = time.Duration(v * float64(time.Millisecond))
			case int:
				s.Timeout = time.Duration(v) * time.Millisecond
			case int64:
				s.Timeout = time.Duration(v) * time.Millisecond
			default:
				return fmt.Errorf("invalid value type for timeout: expected duration string or milliseconds, got %T", value)
			}

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	switch s.WaitUntil {
	case "load", "domcontentloaded", "networkidle", "commit":
	default:
		return fmt.Errorf("invalid wait_until: %s (must be 'load', 'domcontentloaded', 'networkidle', or 'commit')", s.WaitUntil)
	}
	if s.Timeout < time.Second || s.Timeout > 5*time.Minute {
		return fmt.Errorf("timeout must be between 1s and 5m, got %v", s.Timeout)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Headless = defaultBrowserHeadless
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.WaitUntil = defaultWaitUntil
	s.Timeout = defaultBrowserTimeout
}

// GetSettings returns (headless, width, height, waitUntil, timeout).
func (s *BrowserSection) GetSettings() (bool, int, int, string, time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless, s.ViewportWidth, s.ViewportHeight, s.WaitUntil, s.Timeout
}

// SetHeadless sets whether new sessions run without a window.
func (s *BrowserSection) SetHeadless(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = enabled
}

// SetViewport sets the viewport size of new sessions.
func (s *BrowserSection) SetViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ViewportWidth = width
	s.ViewportHeight = height
}

// SetNavigation sets the load state navigation waits for and its timeout.
func (s *BrowserSection) SetNavigation(waitUntil string, timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WaitUntil = waitUntil
	s.Timeout = timeout
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", value)
}
