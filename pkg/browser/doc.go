// Package browser drives real Chromium pages through Playwright so the
// overlay remover can run against live sites.
//
// # Sessions
//
// A SessionManager owns the Playwright driver and a set of named sessions.
// Each Session wraps one browser, one isolated context and one page:
//
//  1. Initialize installs Chromium (once per machine) and starts the driver
//  2. StartSession launches a browser with the requested viewport
//  3. Navigate or LoadHTML puts content on the page
//  4. Document exposes the page as a dom.Document for the remover
//  5. CloseSession or Shutdown releases every Playwright resource
//
// # Documents
//
// Page implements dom.Document, dom.Element and dom.Node over Playwright
// JS handles. Every property read is a round trip to the browser, so a
// run on a large page is slower than on an in-memory snapshot. Query
// failures never surface as errors to the remover: they degrade to zero
// sizes, empty styles and nil nodes, and the first one is kept for Err.
//
// Handles stay alive until Release is called on the Page.
//
// # Alerts
//
// DialogNotifier is the remover's notifier for a session. Headed sessions
// show the message with window.alert and wait for the user to dismiss it;
// headless sessions only log it.
package browser
