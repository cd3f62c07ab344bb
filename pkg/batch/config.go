package batch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one batch job.
type Config struct {
	Targets []Target `yaml:"targets" json:"targets"`

	// URL access rules
	URLs URLRules `yaml:"urls" json:"urls"`

	Browser   BrowserConfig  `yaml:"browser" json:"browser"`
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// Debug traces every candidate and decision of the remover
	Debug bool `yaml:"debug" json:"debug"`

	// Locale selects the language of the "no overlay" message
	Locale string `yaml:"locale" json:"locale"`

	// Offline runs HTML targets on the in-memory document instead of a browser
	Offline bool `yaml:"offline" json:"offline"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// Target is one page to clean. Exactly one of URL and HTML is set.
type Target struct {
	Name     string    `yaml:"name" json:"name,omitempty"`
	URL      string    `yaml:"url" json:"url,omitempty"`
	HTML     string    `yaml:"html" json:"html,omitempty"`
	Viewport *Viewport `yaml:"viewport" json:"viewport,omitempty"`
}

// Viewport overrides the browser viewport for one target.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// URLRules restricts which URL targets are visited.
type URLRules struct {
	AllowedPatterns []string `yaml:"allowed_patterns" json:"allowed_patterns"`
	DeniedPatterns  []string `yaml:"denied_patterns" json:"denied_patterns"`
}

// BrowserConfig configures browser sessions.
type BrowserConfig struct {
	Headless       bool          `yaml:"headless" json:"headless"`
	ViewportWidth  int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int           `yaml:"viewport_height" json:"viewport_height"`
	WaitUntil      string        `yaml:"wait_until" json:"wait_until"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Individual format flags
	JSON        bool `yaml:"json" json:"json"`
	Markdown    bool `yaml:"markdown" json:"markdown"`
	Screenshots bool `yaml:"screenshots" json:"screenshots"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns a job with no targets and sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  1280,
			ViewportHeight: 720,
			WaitUntil:      "load",
			Timeout:        30 * time.Second,
		},
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".unoverlay/artifacts",
			JSON:      true,
			Markdown:  true,
		},
		Logging: LoggingConfig{Verbosity: "normal"},
	}
}

// LoadConfig reads a YAML job file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigOver(path, DefaultConfig())
}

// LoadConfigOver reads a YAML job file on top of base. Keys the file does
// not set keep the values of base.
func LoadConfigOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := base
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	for i, t := range c.Targets {
		if (t.URL == "") == (t.HTML == "") {
			return fmt.Errorf("target %d: exactly one of url and html is required", i+1)
		}
		if t.Viewport != nil && (t.Viewport.Width <= 0 || t.Viewport.Height <= 0) {
			return fmt.Errorf("target %d: viewport must be positive", i+1)
		}
	}

	if _, err := NewURLMatcher(c.URLs.AllowedPatterns, c.URLs.DeniedPatterns); err != nil {
		return err
	}

	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport must be positive")
	}
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	switch c.Browser.WaitUntil {
	case "", "load", "domcontentloaded", "networkidle", "commit":
	default:
		return fmt.Errorf("invalid wait_until: %s", c.Browser.WaitUntil)
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts output_dir is required when artifacts are enabled")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// NeedsBrowser reports whether any target has to run in a real browser.
func (c *Config) NeedsBrowser() bool {
	for _, t := range c.Targets {
		if t.URL != "" || !c.Offline {
			return true
		}
	}
	return false
}

// viewportFor returns the viewport target runs with.
func (c *Config) viewportFor(t Target) Viewport {
	if t.Viewport != nil {
		return *t.Viewport
	}
	return Viewport{Width: c.Browser.ViewportWidth, Height: c.Browser.ViewportHeight}
}
