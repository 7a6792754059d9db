package scheduler

import (
	"context"
	"fmt"

	"github.com/vk/stepgrid/internal/ctxlog"
	"github.com/vk/stepgrid/internal/graph"
)

// Config parameterises one simulation run.
type Config struct {
	// Workers is the size of the worker pool. Must be at least 1.
	Workers int
	// BaseDuration is added to every task's increment. Must not be negative.
	BaseDuration int
	// Increment is the per-task part of the duration. Nil means
	// AlphabetIncrement.
	Increment IncrementFunc
}

// EventKind tells assignments and completions apart in a Timeline.
type EventKind string

const (
	EventAssigned  EventKind = "assigned"
	EventCompleted EventKind = "completed"
)

// Event is one entry of the simulated timeline.
type Event struct {
	Time   int       `json:"time"`
	Kind   EventKind `json:"kind"`
	Worker int       `json:"worker"`
	Task   string    `json:"task"`
}

// Result is the outcome of a run.
type Result struct {
	// Order is the order in which tasks were handed to workers.
	Order []string
	// Duration is the clock value once the last worker went idle.
	Duration int
	// CompletionOrder is the order in which tasks finished. Ties are broken
	// by worker index.
	CompletionOrder []string
	Timeline        []Event
}

// state is the mutable record of one run. It is owned by Simulate and never
// escapes it.
type state struct {
	graph     *graph.Graph
	pool      *pool
	clock     int
	base      int
	increment IncrementFunc
	result    *Result
}

// Simulate drains g with the worker pool described by cfg. The graph is
// mutated in place and cannot be simulated again.
func Simulate(ctx context.Context, g *graph.Graph, cfg Config) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, cfg.Workers)
	}
	if cfg.BaseDuration < 0 {
		return nil, fmt.Errorf("%w: base duration must not be negative, got %d", ErrInvalidConfig, cfg.BaseDuration)
	}
	if cfg.Increment == nil {
		cfg.Increment = AlphabetIncrement
	}

	s := &state{
		graph:     g,
		pool:      newPool(cfg.Workers),
		base:      cfg.BaseDuration,
		increment: cfg.Increment,
		result: &Result{
			Order:           make([]string, 0, g.Len()),
			CompletionOrder: make([]string, 0, g.Len()),
		},
	}
	logger.Debug("Simulation starting.", "tasks", g.Len(), "workers", cfg.Workers, "base_duration", cfg.BaseDuration)

	for !(g.IsComplete() && s.pool.allIdle()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.advance(ctx); err != nil {
			return nil, err
		}
		if err := s.assign(ctx); err != nil {
			return nil, err
		}
		if s.pool.allIdle() && !g.IsComplete() {
			return nil, &DeadlockError{Clock: s.clock, Pending: g.Unstarted()}
		}
	}

	s.result.Duration = s.clock
	logger.Debug("Simulation finished.", "duration", s.result.Duration, "order", s.result.Order)
	return s.result, nil
}

// advance jumps the clock to the next completion and unlocks the dependents
// of every task finishing then.
func (s *state) advance(ctx context.Context) error {
	delta := s.pool.nextDelta()
	s.clock += delta

	for _, c := range s.pool.advance(delta) {
		if err := s.graph.Unlock(c.task); err != nil {
			return fmt.Errorf("completing %q on worker %d: %w", c.task, c.worker, err)
		}
		s.result.CompletionOrder = append(s.result.CompletionOrder, c.task)
		s.record(ctx, Event{Time: s.clock, Kind: EventCompleted, Worker: c.worker, Task: c.task})
	}
	return nil
}

// assign hands ready tasks to idle workers, smallest task to lowest index.
func (s *state) assign(ctx context.Context) error {
	slots := s.pool.idleSlots()
	if len(slots) == 0 {
		return nil
	}
	ready := s.graph.ReadyTasks()

	for i := 0; i < len(slots) && i < len(ready); i++ {
		task := ready[i]
		d, err := s.duration(task)
		if err != nil {
			return err
		}
		if err := s.graph.MarkStarted(task); err != nil {
			return fmt.Errorf("starting %q: %w", task, err)
		}
		s.pool.assign(slots[i], task, d)
		s.result.Order = append(s.result.Order, task)
		s.record(ctx, Event{Time: s.clock, Kind: EventAssigned, Worker: slots[i], Task: task})
	}
	return nil
}

func (s *state) duration(task string) (int, error) {
	inc, err := s.increment(task)
	if err != nil {
		return 0, &DurationError{Task: task, Err: err}
	}
	d := s.base + inc
	if d < 1 {
		return 0, &DurationError{Task: task, Err: fmt.Errorf("duration must be positive, got %d", d)}
	}
	return d, nil
}

func (s *state) record(ctx context.Context, ev Event) {
	s.result.Timeline = append(s.result.Timeline, ev)
	ctxlog.FromContext(ctx).Debug("Simulation event.", "time", ev.Time, "kind", ev.Kind, "worker", ev.Worker, "task", ev.Task)
}
