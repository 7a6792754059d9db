package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDeadlock is matched by every *DeadlockError.
	ErrDeadlock = errors.New("scheduling deadlock")
	// ErrInvalidConfig is returned for a worker count below one or a
	// negative base duration.
	ErrInvalidConfig = errors.New("invalid scheduler config")
)

// DeadlockError reports a state in which no worker is busy, no task is
// ready and some tasks were never started.
type DeadlockError struct {
	Clock   int
	Pending []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock at t=%d: %d task(s) can never start (%s); the dependencies contain a cycle or an undeclared task",
		e.Clock, len(e.Pending), strings.Join(e.Pending, ", "))
}

// Is lets errors.Is match any DeadlockError against ErrDeadlock.
func (e *DeadlockError) Is(target error) bool {
	return target == ErrDeadlock
}

// DurationError reports a task whose duration could not be computed or is
// not positive.
type DurationError struct {
	Task string
	Err  error
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("duration of task %q: %v", e.Task, e.Err)
}

func (e *DurationError) Unwrap() error { return e.Err }
