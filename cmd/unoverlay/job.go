package main

import (
	"fmt"

	"github.com/entrhq/unoverlay/pkg/batch"
	appconfig "github.com/entrhq/unoverlay/pkg/config"
	"github.com/entrhq/unoverlay/pkg/logging"
)

// buildJob layers the job sources: batch defaults, then the settings file,
// then the YAML job file, then flags given on the command line.
func buildJob(cli *CLIConfig, remover *appconfig.RemoverSection, browserSettings *appconfig.BrowserSection) (*batch.Config, error) {
	job := batch.DefaultConfig()
	// Artifacts are opt-in from the command line
	job.Artifacts.Enabled = false

	if remover != nil {
		job.Debug = remover.IsDebug()
		job.Locale = remover.GetLocale()
		job.Logging.Verbosity = remover.GetLogLevel()
	}
	if browserSettings != nil {
		headless, width, height, waitUntil, timeout := browserSettings.GetSettings()
		job.Browser.Headless = headless
		job.Browser.ViewportWidth = width
		job.Browser.ViewportHeight = height
		job.Browser.WaitUntil = waitUntil
		job.Browser.Timeout = timeout
	}

	if cli.ConfigFile != "" {
		var err error
		if job, err = batch.LoadConfigOver(cli.ConfigFile, job); err != nil {
			return nil, err
		}
	}

	if cli.URL != "" {
		job.Targets = append(job.Targets, batch.Target{URL: cli.URL})
	}
	if cli.HTMLFile != "" {
		job.Targets = append(job.Targets, batch.Target{HTML: cli.HTMLFile})
	}
	if len(job.Targets) == 0 {
		return nil, fmt.Errorf("a -url, -html or -config job is required")
	}

	if cli.set["headless"] {
		job.Browser.Headless = cli.Headless
	}
	if cli.set["width"] {
		job.Browser.ViewportWidth = cli.Width
	}
	if cli.set["height"] {
		job.Browser.ViewportHeight = cli.Height
	}
	if cli.set["locale"] {
		job.Locale = cli.Locale
	}
	if cli.set["debug"] {
		job.Debug = cli.Debug
	}
	if cli.set["offline"] {
		job.Offline = cli.Offline
	}
	if cli.OutputDir != "" {
		job.Artifacts.Enabled = true
		job.Artifacts.OutputDir = cli.OutputDir
	}
	if cli.set["screenshot"] {
		job.Artifacts.Screenshots = cli.Screenshot
		if cli.Screenshot {
			job.Artifacts.Enabled = true
		}
	}

	return job, nil
}

// storeSettings copies the effective options of job back into the settings
// sections so they can be saved for later runs.
func storeSettings(job *batch.Config, remover *appconfig.RemoverSection, browserSettings *appconfig.BrowserSection) {
	if remover != nil {
		remover.SetDebug(job.Debug)
		remover.SetLocale(job.Locale)
		remover.SetLogLevel(job.Logging.Verbosity)
	}
	if browserSettings != nil {
		browserSettings.SetHeadless(job.Browser.Headless)
		browserSettings.SetViewport(job.Browser.ViewportWidth, job.Browser.ViewportHeight)
		browserSettings.SetNavigation(job.Browser.WaitUntil, job.Browser.Timeout)
	}
}

// logLevel maps the job verbosity to a logger level. Debug tracing needs
// debug entries regardless of the verbosity.
func logLevel(job *batch.Config) logging.Level {
	if job.Debug {
		return logging.LevelDebug
	}
	level, err := logging.ParseLevel(job.Logging.Verbosity)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}
