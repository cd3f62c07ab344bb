// Package main provides the unoverlay command: it opens pages in a browser
// (or parses saved HTML snapshots), hides the popup overlay blocking them,
// restores scrolling and reports what it did.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/unoverlay/pkg/batch"
	"github.com/entrhq/unoverlay/pkg/browser"
	appconfig "github.com/entrhq/unoverlay/pkg/config"
	"github.com/entrhq/unoverlay/pkg/logging"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	URL           string
	HTMLFile      string
	ConfigFile    string
	Settings      string
	SaveSettings  bool
	ResetSettings bool
	Headless      bool
	Width         int
	Height        int
	Locale        string
	Debug         bool
	OutputDir     string
	Screenshot    bool
	Offline       bool
	ShowVersion   bool

	// set records the flags given explicitly on the command line
	set map[string]bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("unoverlay v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Printf("unoverlay failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	config := &CLIConfig{}

	flag.StringVar(&config.URL, "url", "", "Page to clean")
	flag.StringVar(&config.HTMLFile, "html", "", "Saved HTML snapshot to clean")
	flag.StringVar(&config.ConfigFile, "config", "", "Path to a batch job file (YAML)")
	flag.StringVar(&config.Settings, "settings", "", "Path to the settings file (default ~/.unoverlay/config.json)")
	flag.BoolVar(&config.SaveSettings, "save-settings", false, "Store this run's browser and remover options in the settings file")
	flag.BoolVar(&config.ResetSettings, "reset-settings", false, "Ignore the stored settings and start from the defaults")
	flag.BoolVar(&config.Headless, "headless", true, "Run the browser without a window")
	flag.IntVar(&config.Width, "width", 1280, "Viewport width")
	flag.IntVar(&config.Height, "height", 720, "Viewport height")
	flag.StringVar(&config.Locale, "locale", "", "Language of the 'no overlay' message (e.g. de, fr-CA)")
	flag.BoolVar(&config.Debug, "debug", false, "Trace every candidate and decision")
	flag.StringVar(&config.OutputDir, "output", "", "Artifact directory (summary.json, summary.md, screenshots)")
	flag.BoolVar(&config.Screenshot, "screenshot", false, "Capture each page after cleaning")
	flag.BoolVar(&config.Offline, "offline", false, "Parse HTML snapshots in memory instead of a browser")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "unoverlay - Hide the popup overlay covering a web page\n\n")
		fmt.Fprintf(os.Stderr, "Usage: unoverlay [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Clean a live page in a visible browser\n")
		fmt.Fprintf(os.Stderr, "  unoverlay -url https://news.example.com -headless=false\n\n")
		fmt.Fprintf(os.Stderr, "  # Clean a saved snapshot without a browser\n")
		fmt.Fprintf(os.Stderr, "  unoverlay -html page.html -offline -debug\n\n")
		fmt.Fprintf(os.Stderr, "  # Remember a mobile viewport for later runs\n")
		fmt.Fprintf(os.Stderr, "  unoverlay -url https://news.example.com -width 390 -height 844 -save-settings\n\n")
		fmt.Fprintf(os.Stderr, "  # Run a batch job\n")
		fmt.Fprintf(os.Stderr, "  unoverlay -config sites.yaml -output .unoverlay/artifacts -screenshot\n\n")
	}

	flag.Parse()

	config.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		config.set[f.Name] = true
	})
	return config
}

// run executes one job
func run(ctx context.Context, cliConfig *CLIConfig) error {
	if err := appconfig.Initialize(cliConfig.Settings); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	if cliConfig.ResetSettings {
		appconfig.Global().ResetAll()
	}

	job, err := buildJob(cliConfig, appconfig.GetRemover(), appconfig.GetBrowser())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cliConfig.SaveSettings {
		storeSettings(job, appconfig.GetRemover(), appconfig.GetBrowser())
		if err := appconfig.Global().SaveAll(); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		if store, ok := appconfig.Global().Store().(*appconfig.FileStore); ok {
			log.Printf("settings saved to %s", store.Path())
		}
	}

	logger, logErr := logging.NewLogger("unoverlay")
	if logErr != nil {
		log.Printf("logging to stderr: %v", logErr)
	}
	defer logger.Close()
	logger.SetLevel(logLevel(job))

	var sessions *browser.SessionManager
	if job.NeedsBrowser() {
		sessions = browser.NewSessionManager()
		if err := sessions.Initialize(); err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer func() {
			if err := sessions.Shutdown(); err != nil {
				logger.Warnf("browser shutdown: %v", err)
			}
		}()
	}

	runner, err := batch.NewRunner(job, sessions, logger)
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(ctx)

	if err := batch.WriteSummary(os.Stdout, summary); err != nil {
		logger.Warnf("failed to print summary: %v", err)
	}
	if err := batch.NewArtifactWriter(job.Artifacts.OutputDir).WriteAll(summary, job.Artifacts); err != nil {
		return fmt.Errorf("failed to write artifacts: %w", err)
	}
	if path := logger.LogPath(); path != "" {
		log.Printf("log: %s", path)
	}

	if runErr != nil {
		return runErr
	}
	if summary.Totals.Failed > 0 {
		return fmt.Errorf("%d of %d targets failed", summary.Totals.Failed, summary.Totals.Targets)
	}
	return nil
}
