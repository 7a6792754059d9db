package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level construct a plan file may contain.
type fileRoot struct {
	Strict    bool        `hcl:"strict,optional"`
	Tasks     []*Task     `hcl:"task,block"`
	Edges     []*Edge     `hcl:"edge,block"`
	Scenarios []*Scenario `hcl:"scenario,block"`
}

// Task is a `task "<id>" {}` block.
type Task struct {
	ID        string   `hcl:"id,label"`
	DependsOn []string `hcl:"depends_on,optional"`
	Increment *int     `hcl:"increment,optional"`
}

// Edge is an `edge "<before>" "<after>" {}` block.
type Edge struct {
	Before string `hcl:"before,label"`
	After  string `hcl:"after,label"`
}

// Scenario is a `scenario "<name>" {}` block. Increment stays an attribute
// so its expression can be evaluated once per task.
type Scenario struct {
	Name         string         `hcl:"name,label"`
	Workers      int            `hcl:"workers"`
	BaseDuration int            `hcl:"base_duration,optional"`
	Increment    *hcl.Attribute `hcl:"increment,optional"`
	Report       []string       `hcl:"report,optional"`
}
