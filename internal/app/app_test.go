package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepgrid/internal/app"
	"github.com/vk/stepgrid/internal/graph"
	"github.com/vk/stepgrid/internal/scheduler"
	"github.com/vk/stepgrid/internal/testutil"
)

type fakePublisher struct {
	payloads []any
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, payloads []any) error {
	p.payloads = append(p.payloads, payloads...)
	return p.err
}

func TestRun_TextPlanDefaultScenarios(t *testing.T) {
	result := testutil.RunApp(t,
		map[string]string{"/input.txt": testutil.CanonicalSteps},
		app.Config{PlanPath: "/input.txt", Workers: 2, BaseDuration: 0},
	)
	require.NoError(t, result.Err)

	assert.Contains(t, result.Output, "[order] Step order: CABDFE\n")
	assert.Contains(t, result.Output, "[timed] Total time: 15\n")
	assert.Contains(t, result.LogOutput, "Simulation finished.")
}

func TestRun_DefaultBaseDuration(t *testing.T) {
	result := testutil.RunApp(t,
		map[string]string{"/input.txt": testutil.CanonicalSteps},
		app.Config{PlanPath: "/input.txt", Workers: 2, BaseDuration: 60},
	)
	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "[timed] Total time: 258\n")
}

func TestRun_PlanFormats(t *testing.T) {
	testCases := []struct {
		name  string
		path  string
		files map[string]string
	}{
		{"hcl file", "/plan.hcl", map[string]string{"/plan.hcl": testutil.CanonicalHCL}},
		{"hcl directory", "/plan", map[string]string{"/plan/main.hcl": testutil.CanonicalHCL}},
		{"yaml file", "/plan.yaml", map[string]string{"/plan.yaml": testutil.CanonicalYAML}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := testutil.RunApp(t, tc.files, app.Config{PlanPath: tc.path})
			require.NoError(t, result.Err)

			assert.Contains(t, result.Output, "[serial] Step order: CABDFE\n")
			assert.Contains(t, result.Output, "[pair] Step order: CAFBDE\n")
			assert.Contains(t, result.Output, "[pair] Total time: 15\n")
			assert.NotContains(t, result.Output, "[serial] Total time")
		})
	}
}

func TestRun_ExplicitFormatOverridesExtension(t *testing.T) {
	result := testutil.RunApp(t,
		map[string]string{"/plan.conf": testutil.CanonicalHCL},
		app.Config{PlanPath: "/plan.conf", Format: app.FormatHCL},
	)
	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "[pair] Total time: 15\n")
}

func TestRun_JSONOutput(t *testing.T) {
	result := testutil.RunApp(t,
		map[string]string{"/input.txt": testutil.CanonicalSteps},
		app.Config{PlanPath: "/input.txt", Workers: 2, Output: app.OutputJSON},
	)
	require.NoError(t, result.Err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Output), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "order", entries[0]["scenario"])
	assert.Equal(t, "CABDFE", entries[0]["order"])
	assert.NotContains(t, entries[0], "duration")

	assert.Equal(t, "timed", entries[1]["scenario"])
	assert.EqualValues(t, 2, entries[1]["workers"])
	assert.EqualValues(t, 15, entries[1]["duration"])
	assert.NotContains(t, entries[1], "order")
}

func TestRun_TimelineReport(t *testing.T) {
	plan := `
edge "A" "B" {}

scenario "trace" {
  workers = 1
  report  = ["timeline"]
}
`
	result := testutil.RunApp(t, map[string]string{"/p.hcl": plan}, app.Config{PlanPath: "/p.hcl"})
	require.NoError(t, result.Err)

	assert.Contains(t, result.Output, "[trace]   t=0 worker 0 assigned A\n")
	assert.Contains(t, result.Output, "[trace]   t=1 worker 0 completed A\n")
	assert.Contains(t, result.Output, "[trace]   t=3 worker 0 completed B\n")
}

func TestRun_PositionIncrement(t *testing.T) {
	plan := `
edge "build" "test" {}
edge "build" "lint" {}

scenario "ranked" {
  workers   = 1
  increment = position + 1
  report    = ["order", "duration"]
}
`
	result := testutil.RunApp(t, map[string]string{"/p.hcl": plan}, app.Config{PlanPath: "/p.hcl"})
	require.NoError(t, result.Err)

	// Sorted universe is build, lint, test, so durations are 1, 2 and 3.
	assert.Contains(t, result.Output, "[ranked] Step order: buildlinttest\n")
	assert.Contains(t, result.Output, "[ranked] Total time: 6\n")
}

func TestRun_DeadlockWritesNothing(t *testing.T) {
	cycle := "Step A must be finished before step B can begin.\nStep B must be finished before step A can begin.\n"
	pub := &fakePublisher{}

	result := testutil.RunApp(t,
		map[string]string{"/cycle.txt": cycle},
		app.Config{PlanPath: "/cycle.txt"},
		app.WithPublisher(pub),
	)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, scheduler.ErrDeadlock)
	assert.Contains(t, result.Err.Error(), `scenario "order"`)

	assert.Empty(t, result.Output)
	assert.Empty(t, pub.payloads)
	assert.Contains(t, result.LogOutput, "Simulation deadlocked.")
}

func TestRun_MalformedLine(t *testing.T) {
	result := testutil.RunApp(t,
		map[string]string{"/bad.txt": "Step A must be finished before step B can begin.\nStep A then B\n"},
		app.Config{PlanPath: "/bad.txt"},
	)
	require.Error(t, result.Err)

	var merr *graph.MalformedEdgeError
	require.ErrorAs(t, result.Err, &merr)
	assert.Equal(t, "/bad.txt:2", merr.Source)
	assert.Empty(t, result.Output)
}

func TestRun_MissingPlan(t *testing.T) {
	result := testutil.RunApp(t, nil, app.Config{PlanPath: "/nowhere.txt"})
	require.Error(t, result.Err)
	assert.ErrorContains(t, result.Err, "failed to load plan")
}

func TestRun_StrictPlanWithoutTasks(t *testing.T) {
	plan := "strict = true\nedge \"A\" \"B\" {}\n"
	result := testutil.RunApp(t, map[string]string{"/p.hcl": plan}, app.Config{PlanPath: "/p.hcl"})
	require.Error(t, result.Err)
	assert.ErrorContains(t, result.Err, "strict plan declares no tasks")
	assert.Empty(t, result.Output)
}

func TestRun_InvalidScenario(t *testing.T) {
	plan := "scenario \"bad\" {\n  workers = 0\n}\n"
	result := testutil.RunApp(t, map[string]string{"/p.hcl": plan}, app.Config{PlanPath: "/p.hcl"})
	require.Error(t, result.Err)
	assert.ErrorContains(t, result.Err, "invalid scenario")
	assert.Empty(t, result.Output)
}

func TestRun_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	result := testutil.RunApp(t,
		map[string]string{"/input.txt": testutil.CanonicalSteps},
		app.Config{PlanPath: "/input.txt", Workers: 2},
		app.WithPublisher(pub),
	)
	require.NoError(t, result.Err)
	require.Len(t, pub.payloads, 2)

	raw, err := json.Marshal(pub.payloads[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"scenario":"timed","workers":2,"base_duration":0,"duration":15}`, string(raw))
}

func TestRun_PublishErrorIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	result := testutil.RunApp(t,
		map[string]string{"/input.txt": testutil.CanonicalSteps},
		app.Config{PlanPath: "/input.txt"},
		app.WithPublisher(&fakePublisher{err: boom}),
	)
	assert.ErrorIs(t, result.Err, boom)
}
