package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// LoadHTML replaces the page content with markup, as when opening a saved
// snapshot of a site.
func (s *Session) LoadHTML(markup string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageSetContentOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.SetContent(markup, playwrightOpts); err != nil {
		return fmt.Errorf("loading html failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Screenshot writes a PNG capture of the page.
func (s *Session) Screenshot(opts ScreenshotOptions) error {
	s.UpdateLastUsed()

	if opts.Path == "" {
		return fmt.Errorf("screenshot path is required")
	}

	_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(opts.Path),
		FullPage: playwright.Bool(opts.FullPage),
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Document returns the page as a dom.Document. Call Release on the result
// once the run is over.
func (s *Session) Document() *Page {
	s.UpdateLastUsed()
	return newPage(s.Page)
}

// GetMetadata returns current page metadata.
func (s *Session) GetMetadata() map[string]string {
	title, err := s.Page.Title()
	if err != nil {
		title = ""
	}

	return map[string]string{
		"title": title,
		"url":   s.Page.URL(),
	}
}
