// Package lifecycle defines the state machine for gig applications.
//
// Valid status graph:
//
//	pending ──► accepted ──► completed
//	    │
//	    └─────► rejected
//
// completed and rejected are terminal states.
package lifecycle

import (
	"fmt"
	"strings"
)

// Status values mirror the application status column.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted},
	// completed and rejected are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, case-insensitively,
// returning an error for unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// TransitionError reports a disallowed status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition application from %s to %s", e.From, e.To)
}

// Transition validates moving from → to, returning a *TransitionError when
// the state machine forbids it.
func Transition(from, to Status) error {
	for _, s := range validTransitions[from] {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// IsTerminal reports whether status has no outgoing transitions.
func IsTerminal(s Status) bool {
	return len(validTransitions[s]) == 0
}
