// Package graph holds the dependency graph consumed by the scheduler.
//
// A Graph owns the task universe, the number of unresolved prerequisites for
// every task and the ordered list of tasks each task unlocks when it
// completes. It is built once from a list of edges and then drained in place
// by a single simulation run, so a Graph must not be reused across runs.
//
// All iteration over tasks is in ascending identifier order. ReadyTasks is
// therefore the deterministic tie-break: when several tasks are eligible at
// the same instant, the smallest identifier comes first.
//
// A Graph is not safe for concurrent use. The scheduler is its only mutator.
package graph
