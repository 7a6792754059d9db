// Package yamlplan loads plans written in YAML. It mirrors the HCL format:
//
//	strict: false
//	tasks:
//	  A: {depends_on: [C], increment: 5}
//	edges:
//	  - [C, F]
//	scenarios:
//	  - name: timed
//	    workers: 5
//	    base_duration: 60
//	    increment: "ordinal"
//	    report: [duration]
//
// Increment strings are HCL expressions with the same variables and
// functions as in HCL plans.
package yamlplan

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/vk/stepgrid/internal/config"
	"github.com/vk/stepgrid/internal/ctxlog"
	"github.com/vk/stepgrid/internal/fsutil"
	"github.com/vk/stepgrid/internal/graph"
	"github.com/vk/stepgrid/internal/hcl"
)

type document struct {
	Strict    bool                 `yaml:"strict"`
	Tasks     map[string]*taskSpec `yaml:"tasks"`
	Edges     []yaml.Node          `yaml:"edges"`
	Scenarios []scenarioSpec       `yaml:"scenarios"`
}

type taskSpec struct {
	DependsOn []string `yaml:"depends_on"`
	Increment *int     `yaml:"increment"`
}

type scenarioSpec struct {
	Name         string   `yaml:"name"`
	Workers      int      `yaml:"workers"`
	BaseDuration int      `yaml:"base_duration"`
	Increment    string   `yaml:"increment"`
	Report       []string `yaml:"report"`
}

// Loader implements config.Loader for YAML plans.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader returns a loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load parses every path (a file, or a directory of *.yaml and *.yml files).
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(l.fs, paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}

	plan := &config.Plan{}
	for _, file := range files {
		src, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		var doc document
		if err := yaml.Unmarshal(src, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
		part, err := translate(file, &doc)
		if err != nil {
			return nil, err
		}
		if err := plan.Merge(part); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		logger.Debug("Parsed YAML plan.", "file", file, "edges", len(part.Edges), "scenarios", len(part.Scenarios))
	}
	return plan, nil
}

func translate(file string, doc *document) (*config.Plan, error) {
	plan := &config.Plan{Strict: doc.Strict}

	// Map iteration order is random; declare tasks in identifier order.
	ids := make([]string, 0, len(doc.Tasks))
	for id := range doc.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		plan.Tasks = append(plan.Tasks, id)
		spec := doc.Tasks[id]
		if spec == nil {
			continue
		}
		if spec.Increment != nil {
			if plan.Increments == nil {
				plan.Increments = make(map[string]int)
			}
			plan.Increments[id] = *spec.Increment
		}
		for _, dep := range spec.DependsOn {
			e, err := graph.NewEdge(fmt.Sprintf("%s: task %q", file, id), []string{dep, id})
			if err != nil {
				return nil, err
			}
			plan.Edges = append(plan.Edges, e)
		}
	}

	for i := range doc.Edges {
		n := &doc.Edges[i]
		source := fmt.Sprintf("%s:%d", file, n.Line)
		var fields []string
		if n.Kind != yaml.SequenceNode {
			return nil, &graph.MalformedEdgeError{Source: source, Record: n.Value, Reason: "edge must be a [prerequisite, dependent] sequence"}
		}
		if err := n.Decode(&fields); err != nil {
			return nil, &graph.MalformedEdgeError{Source: source, Reason: err.Error()}
		}
		e, err := graph.NewEdge(source, fields)
		if err != nil {
			return nil, err
		}
		plan.Edges = append(plan.Edges, e)
	}

	for _, s := range doc.Scenarios {
		sc := &config.Scenario{
			Name:         s.Name,
			Workers:      s.Workers,
			BaseDuration: s.BaseDuration,
			Report:       s.Report,
		}
		if s.Increment != "" {
			inc, err := hcl.ParseIncrement(s.Increment, file)
			if err != nil {
				return nil, fmt.Errorf("%s: scenario %q: %w", file, s.Name, err)
			}
			sc.Increment = inc
		}
		if err := plan.Merge(&config.Plan{Scenarios: []*config.Scenario{sc}}); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return plan, nil
}
