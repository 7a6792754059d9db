package testutil

// CanonicalSteps is the six-task example in the line format.
const CanonicalSteps = `Step C must be finished before step A can begin.
Step C must be finished before step F can begin.
Step A must be finished before step B can begin.
Step A must be finished before step D can begin.
Step B must be finished before step E can begin.
Step D must be finished before step E can begin.
Step F must be finished before step E can begin.
`

// CanonicalHCL is the six-task example as an HCL plan with an untimed
// serial scenario and an untimed two-worker scenario.
const CanonicalHCL = `
task "A" { depends_on = ["C"] }
task "F" { depends_on = ["C"] }
task "B" { depends_on = ["A"] }
task "D" { depends_on = ["A"] }
task "E" { depends_on = ["B", "D", "F"] }

scenario "serial" {
  workers = 1
  report  = ["order"]
}

scenario "pair" {
  workers = 2
  report  = ["order", "duration"]
}
`

// CanonicalYAML is CanonicalHCL in YAML.
const CanonicalYAML = `
tasks:
  A: {depends_on: [C]}
  F: {depends_on: [C]}
  B: {depends_on: [A]}
  D: {depends_on: [A]}
  E: {depends_on: [B, D, F]}
scenarios:
  - {name: serial, workers: 1, report: [order]}
  - {name: pair, workers: 2, report: [order, duration]}
`
