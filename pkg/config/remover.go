package config

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

const (
	// SectionIDRemover is the identifier for the remover settings section
	SectionIDRemover = "remover"

	defaultRemoverDebug = false
	defaultLogLevel     = "normal"
)

// RemoverSection holds settings of the overlay heuristic itself.
type RemoverSection struct {
	Debug    bool   `json:"debug"`
	Locale   string `json:"locale"`
	LogLevel string `json:"log_level"`
	mu       sync.RWMutex
}

// NewRemoverSection creates a remover section with default settings.
func NewRemoverSection() *RemoverSection {
	return &RemoverSection{
		Debug:    defaultRemoverDebug,
		LogLevel: defaultLogLevel,
	}
}

// ID returns the section identifier.
func (s *RemoverSection) ID() string {
	return SectionIDRemover
}

// Title returns the section title.
func (s *RemoverSection) Title() string {
	return "Overlay Remover"
}

// Description returns the section description.
func (s *RemoverSection) Description() string {
	return "Debug tracing, message locale and log verbosity of the overlay remover."
}

// Data returns the current configuration data.
func (s *RemoverSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"debug":     s.Debug,
		"locale":    s.Locale,
		"log_level": s.LogLevel,
	}
}

// SetData updates the configuration from the provided data.
func (s *RemoverSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "debug":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for debug: expected bool, got %T", value)
			}
			s.Debug = enabled

		case "locale", "log_level":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
			}
			if key == "locale" {
				s.Locale = str
			} else {
				s.LogLevel = str
			}

		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}

	return nil
}

// Validate validates the current configuration.
func (s *RemoverSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.LogLevel {
	case "quiet", "normal", "verbose", "debug":
	default:
		return fmt.Errorf("invalid log_level: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", s.LogLevel)
	}
	if s.Locale != "" {
		if _, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(s.Locale, "_", "-")); err != nil {
			return fmt.Errorf("invalid locale %q: %w", s.Locale, err)
		}
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *RemoverSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Debug = defaultRemoverDebug
	s.Locale = ""
	s.LogLevel = defaultLogLevel
}

// IsDebug reports whether debug tracing is enabled.
func (s *RemoverSection) IsDebug() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Debug
}

// SetDebug enables or disables debug tracing.
func (s *RemoverSection) SetDebug(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Debug = enabled
}

// GetLocale returns the configured message locale, empty for the default.
func (s *RemoverSection) GetLocale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Locale
}

// SetLocale sets the message locale.
func (s *RemoverSection) SetLocale(locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Locale = locale
}

// SetLogLevel sets the log verbosity.
func (s *RemoverSection) SetLogLevel(level string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LogLevel = level
}

// GetLogLevel returns the configured log verbosity.
func (s *RemoverSection) GetLogLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LogLevel
}
