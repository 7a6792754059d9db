// Package scheduler runs the discrete-event simulation that turns a
// dependency graph into an execution order and a total duration.
//
// # How It Works
//
// A fixed pool of identical workers is modelled as a slice of slots, each
// either idle or busy for a number of remaining time units. Every iteration
// of the loop:
//  1. jumps the clock to the earliest moment a busy worker frees up,
//  2. releases the dependents of every task finishing at that moment,
//  3. hands the smallest ready task to each idle worker, lowest index first.
//
// The loop ends when every task has been started and every worker is idle.
// If at some point no worker is busy, nothing is ready, and tasks remain,
// the input has a cycle (or a prerequisite outside the universe) and
// Simulate returns a *DeadlockError.
//
// # Ordering
//
// Result.Order is the assignment order. With one worker it equals the
// completion order and is the lexicographically smallest topological order.
// With several workers the two diverge; Result.CompletionOrder and
// Result.Timeline expose what actually finished when.
//
// Nothing here runs concurrently. "Busy" is data, not a goroutine, so a run
// is reproducible bit for bit from its inputs.
package scheduler
