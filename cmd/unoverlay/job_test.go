package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/entrhq/unoverlay/pkg/config"
	"github.com/entrhq/unoverlay/pkg/logging"
)

func TestBuildJob_RequiresTarget(t *testing.T) {
	_, err := buildJob(&CLIConfig{set: map[string]bool{}}, nil, nil)
	assert.Error(t, err)
}

func TestBuildJob_SettingsThenFlags(t *testing.T) {
	remover := appconfig.NewRemoverSection()
	remover.SetLocale("de")
	browserSettings := appconfig.NewBrowserSection()
	browserSettings.SetHeadless(false)
	browserSettings.SetViewport(1024, 768)

	cli := &CLIConfig{
		URL:    "https://news.example.com",
		Width:  390,
		Locale: "it",
		set:    map[string]bool{"width": true, "locale": true},
	}

	job, err := buildJob(cli, remover, browserSettings)
	require.NoError(t, err)
	require.NoError(t, job.Validate())

	assert.Equal(t, "https://news.example.com", job.Targets[0].URL)
	assert.False(t, job.Browser.Headless, "settings apply when the flag is not given")
	assert.Equal(t, 390, job.Browser.ViewportWidth)
	assert.Equal(t, 768, job.Browser.ViewportHeight)
	assert.Equal(t, "it", job.Locale)
	assert.False(t, job.Artifacts.Enabled)
}

func TestBuildJob_JobFileOverSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targets:
  - html: page.html
browser:
  timeout: 5s
locale: es
`), 0600))

	remover := appconfig.NewRemoverSection()
	remover.SetLocale("de")
	browserSettings := appconfig.NewBrowserSection()
	browserSettings.SetViewport(800, 600)

	cli := &CLIConfig{
		ConfigFile: path,
		OutputDir:  "out",
		Screenshot: true,
		Offline:    true,
		set:        map[string]bool{"screenshot": true, "offline": true},
	}

	job, err := buildJob(cli, remover, browserSettings)
	require.NoError(t, err)

	assert.Equal(t, "page.html", job.Targets[0].HTML)
	assert.Equal(t, "es", job.Locale)
	assert.Equal(t, 5*time.Second, job.Browser.Timeout)
	assert.Equal(t, 800, job.Browser.ViewportWidth)
	assert.True(t, job.Offline)
	assert.True(t, job.Artifacts.Enabled)
	assert.True(t, job.Artifacts.Screenshots)
	assert.Equal(t, "out", job.Artifacts.OutputDir)
}

func TestLogLevel(t *testing.T) {
	job, err := buildJob(&CLIConfig{URL: "https://a.example", set: map[string]bool{}}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, logging.LevelInfo, logLevel(job))

	job.Logging.Verbosity = "quiet"
	assert.Equal(t, logging.LevelError, logLevel(job))

	job.Debug = true
	assert.Equal(t, logging.LevelDebug, logLevel(job))
}

// loadSections opens the settings file at path and returns its sections.
func loadSections(t *testing.T, path string) (*appconfig.Manager, *appconfig.RemoverSection, *appconfig.BrowserSection) {
	t.Helper()
	manager, err := appconfig.Load(path)
	require.NoError(t, err)

	remover, ok := manager.GetSection(appconfig.SectionIDRemover)
	require.True(t, ok)
	browserSettings, ok := manager.GetSection(appconfig.SectionIDBrowser)
	require.True(t, ok)
	return manager, remover.(*appconfig.RemoverSection), browserSettings.(*appconfig.BrowserSection)
}

func TestStoreSettings_UsedByLaterRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	manager, remover, browserSettings := loadSections(t, path)

	cli := &CLIConfig{
		URL:      "https://news.example.com",
		Width:    390,
		Height:   844,
		Headless: false,
		Locale:   "fr",
		Debug:    true,
		set:      map[string]bool{"width": true, "height": true, "headless": true, "locale": true, "debug": true},
	}
	job, err := buildJob(cli, remover, browserSettings)
	require.NoError(t, err)
	require.NoError(t, job.Validate())

	storeSettings(job, remover, browserSettings)
	require.NoError(t, manager.SaveAll())

	_, remover, browserSettings = loadSections(t, path)
	later, err := buildJob(&CLIConfig{URL: "https://other.example", set: map[string]bool{}}, remover, browserSettings)
	require.NoError(t, err)

	assert.Equal(t, 390, later.Browser.ViewportWidth)
	assert.Equal(t, 844, later.Browser.ViewportHeight)
	assert.False(t, later.Browser.Headless)
	assert.Equal(t, "fr", later.Locale)
	assert.True(t, later.Debug)
	assert.Equal(t, job.Browser.Timeout, later.Browser.Timeout)
	assert.Equal(t, "normal", later.Logging.Verbosity)
}

func TestResetSettings_StartsFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"version": "1.0", "sections": {"browser": {"viewport_width": 390, "headless": false}, "remover": {"locale": "de"}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	manager, remover, browserSettings := loadSections(t, path)
	manager.ResetAll()

	job, err := buildJob(&CLIConfig{URL: "https://news.example.com", set: map[string]bool{}}, remover, browserSettings)
	require.NoError(t, err)

	assert.Equal(t, 1280, job.Browser.ViewportWidth)
	assert.True(t, job.Browser.Headless)
	assert.Empty(t, job.Locale)
}
