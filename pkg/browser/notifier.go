package browser

import (
	"fmt"
	"sync"
)

// Logger receives notifier output. *logging.Logger satisfies it.
type Logger interface {
	Infof(format string, v ...interface{})
}

// DialogNotifier shows remover messages on a session's page.
type DialogNotifier struct {
	session *Session
	logger  Logger

	mu       sync.Mutex
	messages []string
	err      error
}

// NewDialogNotifier creates a notifier for session. logger may be nil.
func NewDialogNotifier(session *Session, logger Logger) *DialogNotifier {
	return &DialogNotifier{session: session, logger: logger}
}

// Alert records message and, for headed sessions, shows it with
// window.alert. The call returns once the user dismissed the dialog.
func (n *DialogNotifier) Alert(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()

	if n.logger != nil {
		n.logger.Infof("alert: %s", message)
	}

	if n.session == nil || n.session.Headless || n.session.Page == nil {
		return
	}
	if _, err := n.session.Page.Evaluate(`m => window.alert(m)`, message); err != nil {
		n.mu.Lock()
		if n.err == nil {
			n.err = fmt.Errorf("show alert: %w", err)
		}
		n.mu.Unlock()
	}
}

// Messages returns the messages alerted so far.
func (n *DialogNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

// Err returns the first failure to show a dialog.
func (n *DialogNotifier) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}
