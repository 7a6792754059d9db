// Package config defines the format-agnostic plan model and the Loader
// interface that every input format implements.
//
// A Plan is the single source of truth for the app: the loaders in
// stepfile, hcl and yamlplan produce one, and the app turns it into a
// dependency graph per scenario.
package config
