package graph

import (
	"fmt"
	"sort"
)

// Graph is the mutable dependency state of one simulation run.
type Graph struct {
	// tasks is the universe in ascending identifier order.
	tasks []string
	// remaining holds the number of prerequisites each task still waits on.
	remaining map[string]int
	// unlocks maps a task to the dependents it releases, in edge order.
	unlocks map[string][]string
	started map[string]bool
	// unlocked records tasks whose dependents have already been released.
	unlocked map[string]bool
}

// Build constructs a graph from edges.
//
// If tasks is empty the universe is every identifier mentioned by an edge.
// Otherwise the universe is exactly tasks: an edge from an undeclared
// prerequisite still holds back its dependent, and an edge to an undeclared
// dependent is recorded but never counted.
func Build(edges []Edge, tasks []string) (*Graph, error) {
	g := &Graph{
		remaining: make(map[string]int),
		unlocks:   make(map[string][]string),
		started:   make(map[string]bool),
		unlocked:  make(map[string]bool),
	}

	for i, e := range edges {
		if err := e.Validate(); err != nil {
			merr := err.(*MalformedEdgeError)
			if merr.Source == "" {
				merr.Source = fmt.Sprintf("edges[%d]", i)
			}
			return nil, merr
		}
	}

	declare := func(id string) {
		if _, ok := g.remaining[id]; !ok {
			g.remaining[id] = 0
			g.tasks = append(g.tasks, id)
		}
	}

	if len(tasks) > 0 {
		for _, id := range tasks {
			if err := validateID(id); err != nil {
				return nil, fmt.Errorf("invalid task identifier: %w", err)
			}
			declare(id)
		}
	} else {
		for _, e := range edges {
			declare(e.Prerequisite)
			declare(e.Dependent)
		}
	}
	sort.Strings(g.tasks)

	for _, e := range edges {
		g.unlocks[e.Prerequisite] = append(g.unlocks[e.Prerequisite], e.Dependent)
		if _, ok := g.remaining[e.Dependent]; ok {
			g.remaining[e.Dependent]++
		}
	}

	return g, nil
}

// Len returns the size of the task universe.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Tasks returns the task universe in ascending order.
func (g *Graph) Tasks() []string {
	out := make([]string, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Remaining reports how many prerequisites task still waits on.
func (g *Graph) Remaining(task string) (int, bool) {
	n, ok := g.remaining[task]
	return n, ok
}

// Unlocks returns the dependents released by task, in edge order.
func (g *Graph) Unlocks(task string) []string {
	deps := g.unlocks[task]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// ReadyTasks returns every unstarted task with no remaining prerequisites,
// smallest identifier first.
func (g *Graph) ReadyTasks() []string {
	var ready []string
	for _, id := range g.tasks {
		if g.remaining[id] == 0 && !g.started[id] {
			ready = append(ready, id)
		}
	}
	return ready
}

// MarkStarted records that task has been handed to a worker.
func (g *Graph) MarkStarted(task string) error {
	n, ok := g.remaining[task]
	switch {
	case !ok:
		return taskErr(ErrUnknownTask, task)
	case g.started[task]:
		return taskErr(ErrAlreadyStarted, task)
	case n > 0:
		return fmt.Errorf("%w: %q waits on %d more", ErrNotReady, task, n)
	}
	g.started[task] = true
	return nil
}

// Unlock releases one prerequisite from every dependent of task. It must be
// called exactly once per completed task.
func (g *Graph) Unlock(task string) error {
	if _, ok := g.remaining[task]; !ok {
		return taskErr(ErrUnknownTask, task)
	}
	if g.unlocked[task] {
		return taskErr(ErrAlreadyUnlocked, task)
	}
	g.unlocked[task] = true

	for _, dep := range g.unlocks[task] {
		// Undeclared dependents are not part of the universe.
		if n, ok := g.remaining[dep]; ok && n > 0 {
			g.remaining[dep] = n - 1
		}
	}
	return nil
}

// IsComplete reports whether every task has been started.
func (g *Graph) IsComplete() bool {
	return len(g.started) == len(g.tasks)
}

// Unstarted returns the tasks not yet started, in ascending order.
func (g *Graph) Unstarted() []string {
	var out []string
	for _, id := range g.tasks {
		if !g.started[id] {
			out = append(out, id)
		}
	}
	return out
}
