package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/unoverlay/pkg/browser"
	"github.com/entrhq/unoverlay/pkg/dom/memdom"
	"github.com/entrhq/unoverlay/pkg/i18n"
	"github.com/entrhq/unoverlay/pkg/logging"
	"github.com/entrhq/unoverlay/pkg/overlay"
)

// Status is the outcome of one target.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Backend names the document implementation a target ran on.
const (
	BackendBrowser = "browser"
	BackendMemory  = "memdom"
)

// TargetResult records one target of a job.
type TargetResult struct {
	Name       string         `json:"name"`
	Title      string         `json:"title,omitempty"`
	Source     string         `json:"source"`
	Backend    string         `json:"backend,omitempty"`
	Status     Status         `json:"status"`
	Error      string         `json:"error,omitempty"`
	Report     overlay.Report `json:"report"`
	Alerts     []string       `json:"alerts,omitempty"`
	Screenshot string         `json:"screenshot,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// Summary is the result of a whole job.
type Summary struct {
	RunID     string         `json:"run_id"`
	Locale    string         `json:"locale"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Duration  time.Duration  `json:"duration"`
	Results   []TargetResult `json:"results"`
	Totals    Totals         `json:"totals"`
}

// Totals aggregates the results of a job.
type Totals struct {
	Targets int `json:"targets"`
	Done    int `json:"done"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Hidden  int `json:"hidden"`
	Alerted int `json:"alerted"`
}

// Runner executes a job.
type Runner struct {
	config   *Config
	matcher  *URLMatcher
	sessions *browser.SessionManager
	catalog  *i18n.Catalog
	logger   *logging.Logger
}

// NewRunner prepares a job. sessions may be nil when every target runs
// offline; it must already be initialized otherwise. A nil logger
// discards output.
func NewRunner(config *Config, sessions *browser.SessionManager, logger *logging.Logger) (*Runner, error) {
	if logger == nil {
		logger = logging.NewWriterLogger("batch", io.Discard)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	matcher, err := NewURLMatcher(config.URLs.AllowedPatterns, config.URLs.DeniedPatterns)
	if err != nil {
		return nil, err
	}

	catalog, err := i18n.New(config.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return &Runner{
		config:   config,
		matcher:  matcher,
		sessions: sessions,
		catalog:  catalog,
		logger:   logger,
	}, nil
}

// Run processes every target in order. It returns the summary gathered so
// far together with ctx.Err() when the context is cancelled.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		Locale:    r.catalog.Locale(),
		StartTime: time.Now(),
	}
	r.logger.Infof("run %s: %d targets", summary.RunID, len(r.config.Targets))

	var runErr error
	for i, target := range r.config.Targets {
		if err := ctx.Err(); err != nil {
			r.logger.Warnf("run cancelled before target %d: %v", i+1, err)
			runErr = err
			break
		}

		result := r.runTarget(ctx, i, target)
		summary.Results = append(summary.Results, result)
		summary.Totals.add(result)
	}

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	return summary, runErr
}

func (t *Totals) add(result TargetResult) {
	t.Targets++
	switch result.Status {
	case StatusDone:
		t.Done++
	case StatusSkipped:
		t.Skipped++
	case StatusFailed:
		t.Failed++
	}
	t.Hidden += result.Report.Hidden()
	if result.Report.Alerted {
		t.Alerted++
	}
}

func (r *Runner) runTarget(ctx context.Context, index int, target Target) TargetResult {
	start := time.Now()
	result := TargetResult{
		Name:   targetName(index, target),
		Source: target.URL,
	}
	if target.HTML != "" {
		result.Source = target.HTML
	}

	var err error
	switch {
	case target.URL != "" && !r.matcher.IsAllowed(target.URL):
		r.logger.Infof("%s: skipped, %s is not allowed", result.Name, target.URL)
		result.Status = StatusSkipped
	case target.HTML != "" && r.config.Offline:
		result.Backend = BackendMemory
		err = r.runOffline(target, &result)
	default:
		result.Backend = BackendBrowser
		err = r.runInBrowser(ctx, index, target, &result)
	}

	if err != nil {
		r.logger.Errorf("%s: %v", result.Name, err)
		result.Status = StatusFailed
		result.Error = err.Error()
	} else if result.Status == "" {
		result.Status = StatusDone
		r.logger.Infof("%s: %d passes, %d hidden", result.Name, result.Report.Iterations, result.Report.Hidden())
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) removerOptions() []overlay.Option {
	if !r.config.Debug {
		return nil
	}
	return []overlay.Option{overlay.WithDebug(r.logger)}
}

func (r *Runner) runOffline(target Target, result *TargetResult) error {
	file, err := os.Open(target.HTML)
	if err != nil {
		return fmt.Errorf("failed to open html: %w", err)
	}
	defer file.Close()

	vp := r.config.viewportFor(target)
	doc, err := memdom.ParseHTML(file, float64(vp.Width), float64(vp.Height))
	if err != nil {
		return err
	}

	notifier := browser.NewDialogNotifier(nil, r.logger)
	remover := overlay.NewRemover(r.catalog, notifier, r.removerOptions()...)
	result.Report = remover.Run(doc)
	result.Alerts = notifier.Messages()

	if r.config.Artifacts.Enabled && r.config.Artifacts.Screenshots {
		r.logger.Debugf("%s: no screenshot for offline documents", result.Name)
	}
	return nil
}

func (r *Runner) runInBrowser(ctx context.Context, index int, target Target, result *TargetResult) error {
	if r.sessions == nil {
		return errors.New("target needs a browser but none is configured")
	}

	vp := r.config.viewportFor(target)
	sessionName := fmt.Sprintf("target-%d", index+1)
	session, err := r.sessions.StartSession(sessionName, browser.SessionOptions{
		Headless: r.config.Browser.Headless,
		Viewport: &browser.Viewport{Width: vp.Width, Height: vp.Height},
		Timeout:  float64(r.config.Browser.Timeout.Milliseconds()),
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := r.sessions.CloseSession(sessionName); closeErr != nil {
			r.logger.Warnf("%s: %v", result.Name, closeErr)
		}
	}()

	// Playwright calls do not take a context; stop early if the job was
	// cancelled while the browser started.
	if err := ctx.Err(); err != nil {
		return err
	}

	navOpts := browser.NavigateOptions{WaitUntil: r.config.Browser.WaitUntil}
	if target.URL != "" {
		err = session.Navigate(target.URL, navOpts)
	} else {
		var markup []byte
		if markup, err = os.ReadFile(target.HTML); err != nil {
			return fmt.Errorf("failed to read html: %w", err)
		}
		err = session.LoadHTML(string(markup), navOpts)
	}
	if err != nil {
		return err
	}

	doc := session.Document()
	defer doc.Release()

	notifier := browser.NewDialogNotifier(session, r.logger)
	remover := overlay.NewRemover(r.catalog, notifier, r.removerOptions()...)
	result.Report = remover.Run(doc)
	result.Alerts = notifier.Messages()

	if docErr := doc.Err(); docErr != nil {
		r.logger.Warnf("%s: page queries failed: %v", result.Name, docErr)
	}
	result.Title = session.GetMetadata()["title"]

	if r.config.Artifacts.Enabled && r.config.Artifacts.Screenshots {
		path := filepath.Join(r.config.Artifacts.OutputDir, "screenshots", slug(result.Name)+".png")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
		if err := session.Screenshot(browser.ScreenshotOptions{Path: path}); err != nil {
			return err
		}
		result.Screenshot = path
	}
	return nil
}

func targetName(index int, target Target) string {
	if target.Name != "" {
		return target.Name
	}
	if target.URL != "" {
		return target.URL
	}
	return fmt.Sprintf("%d-%s", index+1, filepath.Base(target.HTML))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// slug turns a target name into a file name.
func slug(name string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-")
	if s == "" {
		return "target"
	}
	return s
}
