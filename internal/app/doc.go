// Package app contains the application lifecycle: it loads a plan, runs
// every scenario through the scheduler, renders the report and optionally
// publishes the results. It is decoupled from any specific entrypoint like
// the CLI.
package app
