package config

import "context"

// Loader reads a plan from one or more paths.
type Loader interface {
	// Load parses every path and merges the result into a single Plan.
	Load(ctx context.Context, paths ...string) (*Plan, error)
}
