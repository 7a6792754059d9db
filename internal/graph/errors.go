package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEdge is matched by every *MalformedEdgeError.
	ErrMalformedEdge = errors.New("malformed edge")
	// ErrUnknownTask is returned for identifiers outside the task universe.
	ErrUnknownTask = errors.New("unknown task")
	// ErrAlreadyUnlocked is returned when a task's dependents are unlocked twice.
	ErrAlreadyUnlocked = errors.New("task already unlocked")
	// ErrAlreadyStarted is returned when a task is started twice.
	ErrAlreadyStarted = errors.New("task already started")
	// ErrNotReady is returned when starting a task that still has prerequisites.
	ErrNotReady = errors.New("task has unresolved prerequisites")
)

// MalformedEdgeError reports an input record that does not decompose into
// exactly one prerequisite and one dependent identifier.
type MalformedEdgeError struct {
	// Source locates the record, e.g. "steps.txt:4" or "edges[2]". May be empty.
	Source string
	// Record is the raw input as read.
	Record string
	Reason string
}

func (e *MalformedEdgeError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("malformed edge %q", e.Record)
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is lets errors.Is match any MalformedEdgeError against ErrMalformedEdge.
func (e *MalformedEdgeError) Is(target error) bool {
	return target == ErrMalformedEdge
}

func taskErr(kind error, task string) error {
	return fmt.Errorf("%w: %q", kind, task)
}
