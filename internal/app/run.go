package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/stepgrid/internal/config"
	"github.com/vk/stepgrid/internal/graph"
	"github.com/vk/stepgrid/internal/scheduler"
)

// scenarioResult pairs a scenario with its simulation outcome.
type scenarioResult struct {
	scenario *config.Scenario
	result   *scheduler.Result
}

// Run loads the plan, simulates every scenario and writes the report. Either
// every scenario succeeds and the full report is written, or an error is
// returned and nothing is written.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	plan, err := a.loader.Load(ctx, a.config.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}
	a.logger.Debug("Plan loaded.", "edges", len(plan.Edges), "tasks", len(plan.Tasks), "scenarios", len(plan.Scenarios))

	scenarios := plan.Scenarios
	if len(scenarios) == 0 {
		scenarios = defaultScenarios(a.config)
		a.logger.Debug("Plan declares no scenarios, using defaults.", "count", len(scenarios))
	}
	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid scenario: %w", err)
		}
	}

	results := make([]scenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := a.simulate(ctx, plan, s)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		results = append(results, scenarioResult{scenario: s, result: res})
	}

	if err := a.render(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, payloads(results)); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// simulate builds a fresh graph for s, since a run drains the graph it is
// given.
func (a *App) simulate(ctx context.Context, plan *config.Plan, s *config.Scenario) (*scheduler.Result, error) {
	g, err := graph.Build(plan.Edges, plan.Universe())
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	logger := a.logger.With("scenario", s.Name)
	logger.Info("Simulating.", "tasks", g.Len(), "workers", s.Workers, "base_duration", s.BaseDuration)

	res, err := scheduler.Simulate(ctx, g, scheduler.Config{
		Workers:      s.Workers,
		BaseDuration: s.BaseDuration,
		Increment:    plan.IncrementFor(s, g.Tasks()),
	})
	if err != nil {
		var deadlock *scheduler.DeadlockError
		if errors.As(err, &deadlock) {
			logger.Error("Simulation deadlocked.", "clock", deadlock.Clock, "pending", deadlock.Pending)
		}
		return nil, err
	}

	logger.Info("Simulation finished.", "duration", res.Duration)
	return res, nil
}

// defaultScenarios reproduces the two classic runs: the serial order with
// one worker and no base duration, and the timed run with the configured
// pool.
func defaultScenarios(cfg *Config) []*config.Scenario {
	return []*config.Scenario{
		{
			Name:    "order",
			Workers: 1,
			Report:  []string{config.ReportOrder},
		},
		{
			Name:         "timed",
			Workers:      cfg.Workers,
			BaseDuration: cfg.BaseDuration,
			Report:       []string{config.ReportDuration},
		},
	}
}
