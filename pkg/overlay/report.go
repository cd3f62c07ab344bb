package overlay

// Decision records what a pass did with its candidate.
type Decision string

const (
	// DecisionHidden is the unconditional hide of the first pass.
	DecisionHidden Decision = "hidden"

	// DecisionHiddenLight hides a later candidate lighter than
	// WeightThreshold.
	DecisionHiddenLight Decision = "hidden-light"

	// DecisionKeptHeavy leaves a later candidate that looks like content.
	DecisionKeptHeavy Decision = "kept-heavy"
)

// Step is one pass that found a candidate.
type Step struct {
	Iteration int      `json:"iteration"`
	Candidate string   `json:"candidate"`
	Decision  Decision `json:"decision"`

	// Weight is the subtree weight the decision was based on. It is nil on
	// the first pass, which hides without weighing; an empty subtree
	// weighs 0.
	Weight *int `json:"weight,omitempty"`
}

// Report describes one run.
type Report struct {
	// Iterations is the number of passes executed.
	Iterations int `json:"iterations"`

	// Alerted is true when the first pass found nothing and the user was
	// notified.
	Alerted bool `json:"alerted"`

	Steps []Step `json:"steps,omitempty"`

	// RelaxedOverflow lists the containers whose scroll lock was released.
	RelaxedOverflow []string `json:"relaxed_overflow,omitempty"`
}

// Hidden returns how many elements the run hid.
func (r Report) Hidden() int {
	n := 0
	for _, s := range r.Steps {
		if s.Decision == DecisionHidden || s.Decision == DecisionHiddenLight {
			n++
		}
	}
	return n
}

// Kept returns how many candidates were left visible as page content.
func (r Report) Kept() int {
	n := 0
	for _, s := range r.Steps {
		if s.Decision == DecisionKeptHeavy {
			n++
		}
	}
	return n
}
