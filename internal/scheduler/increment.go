package scheduler

import "fmt"

// IncrementFunc returns the per-task part of a task's duration. The full
// duration is Config.BaseDuration plus the increment.
type IncrementFunc func(task string) (int, error)

// AlphabetIncrement maps a single ASCII letter to its 1-based position in
// the alphabet: A and a are 1, Z and z are 26. Any other identifier is an
// error.
func AlphabetIncrement(task string) (int, error) {
	n, ok := Ordinal(task)
	if !ok {
		return 0, fmt.Errorf("%q is not a single letter; configure an increment rule", task)
	}
	return n, nil
}

// Ordinal returns the 1-based alphabet rank of a single-letter identifier.
func Ordinal(task string) (int, bool) {
	if len(task) != 1 {
		return 0, false
	}
	switch c := task[0]; {
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 1, true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 1, true
	}
	return 0, false
}

// ConstantIncrement gives every task the same increment.
func ConstantIncrement(n int) IncrementFunc {
	return func(string) (int, error) { return n, nil }
}

// PositionalIncrementFunc is an increment rule that may also use the task's
// 0-based position in the sorted task universe of a run.
type PositionalIncrementFunc func(task string, position int) (int, error)

// AtPositions binds f to universe, which must be in ascending order. A task
// outside universe is an error. A nil f yields a nil IncrementFunc.
func AtPositions(f PositionalIncrementFunc, universe []string) IncrementFunc {
	if f == nil {
		return nil
	}
	index := make(map[string]int, len(universe))
	for i, id := range universe {
		index[id] = i
	}
	return func(task string) (int, error) {
		pos, ok := index[task]
		if !ok {
			return 0, fmt.Errorf("%q is not in the task universe", task)
		}
		return f(task, pos)
	}
}

// WithOverrides consults overrides first and falls back to base for tasks
// without an entry. A nil base means AlphabetIncrement.
func WithOverrides(base IncrementFunc, overrides map[string]int) IncrementFunc {
	if base == nil {
		base = AlphabetIncrement
	}
	if len(overrides) == 0 {
		return base
	}
	return func(task string) (int, error) {
		if n, ok := overrides[task]; ok {
			return n, nil
		}
		return base(task)
	}
}
