// Package overlay detects and hides elements that cover a page's content:
// modal backdrops, cookie banners, paywalls.
//
// # Detection
//
// A pass hit-tests the centre of the viewport and walks up from the element
// found there, collecting every ancestor with a positive z-index. The
// outermost of them is the candidate: overlays are usually full-screen
// wrappers whose inner parts (dialogs, close buttons) carry their own
// z-index.
//
// # Removal
//
// Run repeats passes until nothing is found or MaxIterations passes have
// run. The first candidate is always hidden, and the page's scroll lock
// (overflow: hidden on the root element or body) is released. Later
// candidates are hidden only when they are light (SubtreeWeight below
// WeightThreshold); heavier ones are assumed to be real content and left
// alone. When the first pass finds nothing the user is told so through the
// Notifier.
//
// Hiding is one-way: the remover never restores an element it hid.
//
// # Example Usage
//
//	catalog, _ := i18n.New("en")
//	remover := overlay.NewRemover(catalog, notifier, overlay.WithDebug(logger))
//	report := remover.Run(doc)
package overlay
