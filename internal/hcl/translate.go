package hcl

import (
	"fmt"

	"github.com/vk/stepgrid/internal/config"
	"github.com/vk/stepgrid/internal/graph"
)

// translate converts the decoded blocks of one file into the agnostic model.
func translate(file string, root *fileRoot) (*config.Plan, error) {
	plan := &config.Plan{Strict: root.Strict}

	for _, t := range root.Tasks {
		plan.Tasks = append(plan.Tasks, t.ID)
		if t.Increment != nil {
			if plan.Increments == nil {
				plan.Increments = make(map[string]int)
			}
			plan.Increments[t.ID] = *t.Increment
		}
		for _, dep := range t.DependsOn {
			e, err := graph.NewEdge(fmt.Sprintf("%s: task %q", file, t.ID), []string{dep, t.ID})
			if err != nil {
				return nil, err
			}
			plan.Edges = append(plan.Edges, e)
		}
	}

	for i, b := range root.Edges {
		e, err := graph.NewEdge(fmt.Sprintf("%s: edge #%d", file, i+1), []string{b.Before, b.After})
		if err != nil {
			return nil, err
		}
		plan.Edges = append(plan.Edges, e)
	}

	for _, s := range root.Scenarios {
		sc := &config.Scenario{
			Name:         s.Name,
			Workers:      s.Workers,
			BaseDuration: s.BaseDuration,
			Report:       s.Report,
		}
		if s.Increment != nil {
			if err := checkVariables(s.Increment.Expr); err != nil {
				return nil, fmt.Errorf("%s: scenario %q: increment: %w", file, s.Name, err)
			}
			sc.Increment = Increment(s.Increment.Expr)
		}
		if err := plan.Merge(&config.Plan{Scenarios: []*config.Scenario{sc}}); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}

	return plan, nil
}
