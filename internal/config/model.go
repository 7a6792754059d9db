package config

import (
	"fmt"
	"sort"

	"github.com/vk/stepgrid/internal/graph"
	"github.com/vk/stepgrid/internal/scheduler"
)

// Report fields a scenario may ask for.
const (
	ReportOrder    = "order"
	ReportDuration = "duration"
	ReportTimeline = "timeline"
)

// Plan is the loaded description of a dependency set and the runs to
// perform over it.
type Plan struct {
	Edges []graph.Edge
	// Tasks are explicitly declared identifiers, in declaration order.
	Tasks []string
	// Strict restricts the universe to Tasks. Otherwise edge endpoints are
	// added to it.
	Strict bool
	// Increments are fixed per-task increments that win over any scenario rule.
	Increments map[string]int
	Scenarios  []*Scenario
}

// Scenario is one simulation over the plan.
type Scenario struct {
	Name         string
	Workers      int
	BaseDuration int
	// Increment is nil for the alphabet rule.
	Increment scheduler.PositionalIncrementFunc
	Report    []string
}

// Universe returns the identifiers to build the graph over, or nil when the
// graph should derive them from the edges.
func (p *Plan) Universe() []string {
	if p.Strict {
		return p.Tasks
	}
	if len(p.Tasks) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(p.Tasks))
	var out []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range p.Tasks {
		add(id)
	}
	for _, e := range p.Edges {
		add(e.Prerequisite)
		add(e.Dependent)
	}
	sort.Strings(out)
	return out
}

// IncrementFor combines the plan's fixed increments with the scenario rule
// bound to universe, the sorted tasks of the graph being simulated.
func (p *Plan) IncrementFor(s *Scenario, universe []string) scheduler.IncrementFunc {
	return scheduler.WithOverrides(scheduler.AtPositions(s.Increment, universe), p.Increments)
}

// Merge appends other into p. Scenario names must stay unique.
func (p *Plan) Merge(other *Plan) error {
	p.Edges = append(p.Edges, other.Edges...)
	p.Tasks = append(p.Tasks, other.Tasks...)
	p.Strict = p.Strict || other.Strict
	for id, n := range other.Increments {
		if p.Increments == nil {
			p.Increments = make(map[string]int)
		}
		p.Increments[id] = n
	}
	for _, s := range other.Scenarios {
		if p.Scenario(s.Name) != nil {
			return fmt.Errorf("duplicate scenario %q", s.Name)
		}
		p.Scenarios = append(p.Scenarios, s)
	}
	return nil
}

// Validate checks the merged plan. A strict plan must declare its tasks,
// since an empty universe would otherwise be derived from the edges.
func (p *Plan) Validate() error {
	if p.Strict && len(p.Tasks) == 0 {
		return fmt.Errorf("strict plan declares no tasks")
	}
	return nil
}

// Scenario returns the scenario called name, or nil.
func (p *Plan) Scenario(name string) *Scenario {
	for _, s := range p.Scenarios {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Validate checks scenario settings before any simulation runs.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if s.Workers < 1 {
		return fmt.Errorf("scenario %q: workers must be at least 1, got %d", s.Name, s.Workers)
	}
	if s.BaseDuration < 0 {
		return fmt.Errorf("scenario %q: base_duration must not be negative, got %d", s.Name, s.BaseDuration)
	}
	for _, r := range s.Report {
		switch r {
		case ReportOrder, ReportDuration, ReportTimeline:
		default:
			return fmt.Errorf("scenario %q: unknown report field %q", s.Name, r)
		}
	}
	return nil
}

// Reports reports whether field is requested. An empty Report asks for
// order and duration.
func (s *Scenario) Reports(field string) bool {
	if len(s.Report) == 0 {
		return field == ReportOrder || field == ReportDuration
	}
	for _, r := range s.Report {
		if r == field {
			return true
		}
	}
	return false
}
