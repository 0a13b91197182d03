package notify

import (
	"context"
	"fmt"
	"io"
	"time"
)

// TerminalNotifier prints notifications to a writer, for interactive
// monitoring sessions.
type TerminalNotifier struct {
	w io.Writer
}

// NewTerminalNotifier creates a terminal channel writing to w.
func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

// Name returns the name of the notifier.
func (t *TerminalNotifier) Name() string {
	return "terminal"
}

// IsEnabled always reports true.
func (t *TerminalNotifier) IsEnabled() bool {
	return true
}

// Send prints the notification.
func (t *TerminalNotifier) Send(ctx context.Context, n Notification) error {
	ts := n.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := fmt.Fprintf(t.w, "[%s] %s\n%s\n", ts.Format("15:04:05"), n.Title, n.Message)
	return err
}
