package overlay

import (
	"github.com/entrhq/unoverlay/pkg/dom"
)

const (
	// MaxIterations caps the detection passes of one run.
	MaxIterations = 10

	// WeightThreshold separates light overlay remnants from page content
	// on passes after the first.
	WeightThreshold = 100

	// MessageNoOverlay is the id looked up in Messages when the first pass
	// finds nothing.
	MessageNoOverlay = "noOverlayAlertMessage"
)

// Messages provides localized user-facing strings.
type Messages interface {
	Lookup(id string) string
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(message string)
}

// Tracer receives debug traces. *logging.Logger satisfies it.
type Tracer interface {
	Debugf(format string, v ...interface{})
}

// Remover runs the overlay heuristic. It holds no run state and can be
// reused across documents.
type Remover struct {
	messages Messages
	notifier Notifier
	tracer   Tracer
}

// Option configures a Remover.
type Option func(*Remover)

// WithDebug enables debug tracing of candidates and decisions. A nil
// tracer leaves tracing off.
func WithDebug(tracer Tracer) Option {
	return func(r *Remover) {
		r.tracer = tracer
	}
}

// NewRemover creates a remover that reports "no overlay found" through
// notifier using the message from messages.
func NewRemover(messages Messages, notifier Notifier, opts ...Option) *Remover {
	r := &Remover{
		messages: messages,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trigger returns the zero-argument entry point a host binds to a user
// action. Each call is an independent run on doc.
func Trigger(doc dom.Document, messages Messages, notifier Notifier, opts ...Option) func() {
	remover := NewRemover(messages, notifier, opts...)
	return func() {
		remover.Run(doc)
	}
}

// FindCentralOverlayAncestor hit-tests the centre of the viewport and
// returns the outermost ancestor of the element found there that has a
// positive z-index. The boolean is false when there is none.
func FindCentralOverlayAncestor(doc dom.Document) (dom.Element, bool) {
	width, height := doc.Viewport()
	hit := doc.ElementFromPoint(width/2, height/2)
	if hit == nil {
		return nil, false
	}

	found := dom.AncestorsMatching(doc, hit, dom.HasPositiveStackIndex)
	if len(found) == 0 {
		return nil, false
	}
	return found[len(found)-1], true
}

// Run performs up to MaxIterations detection passes on doc and returns
// what it did.
func (r *Remover) Run(doc dom.Document) Report {
	var report Report

	for i := 0; i < MaxIterations; i++ {
		report.Iterations = i + 1
		first := i == 0

		candidate, ok := FindCentralOverlayAncestor(doc)
		if !ok {
			r.tracef("pass %d: no overlay found", i+1)
			if first {
				r.alertNoOverlay()
				report.Alerted = true
			}
			break
		}

		label := dom.Describe(candidate)
		r.tracef("pass %d: overlay found: %s", i+1, label)

		if first {
			dom.Hide(candidate)
			report.Steps = append(report.Steps, Step{Iteration: i + 1, Candidate: label, Decision: DecisionHidden})
			report.RelaxedOverflow = relaxScrollLock(doc)
			continue
		}

		weight := dom.SubtreeWeight(candidate, WeightThreshold)
		step := Step{Iteration: i + 1, Candidate: label, Weight: &weight}
		if weight < WeightThreshold {
			r.tracef("pass %d: element is light (%d), hide it: %s", i+1, weight, label)
			dom.Hide(candidate)
			step.Decision = DecisionHiddenLight
		} else {
			r.tracef("pass %d: element is heavy (%d), keep it: %s", i+1, weight, label)
			step.Decision = DecisionKeptHeavy
		}
		report.Steps = append(report.Steps, step)
	}

	return report
}

// relaxScrollLock switches overflow: hidden to overflow: auto on the root
// element and body, returning the labels of the elements it changed.
func relaxScrollLock(doc dom.Document) []string {
	var relaxed []string
	for _, el := range []dom.Element{doc.DocumentElement(), doc.Body()} {
		if el == nil {
			continue
		}
		if el.ComputedStyle("overflow") == "hidden" {
			dom.ForceStyle(el, "overflow", "auto")
			relaxed = append(relaxed, dom.Describe(el))
		}
	}
	return relaxed
}

func (r *Remover) alertNoOverlay() {
	if r.notifier == nil {
		return
	}
	message := MessageNoOverlay
	if r.messages != nil {
		message = r.messages.Lookup(MessageNoOverlay)
	}
	r.notifier.Alert(message)
}

func (r *Remover) tracef(format string, v ...interface{}) {
	if r.tracer != nil {
		r.tracer.Debugf(format, v...)
	}
}
