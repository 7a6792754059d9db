package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vk/stepgrid/internal/config"
	"github.com/vk/stepgrid/internal/scheduler"
)

// reportEntry is the JSON and publish shape of one scenario result. Fields
// the scenario did not ask for are omitted.
type reportEntry struct {
	Scenario        string            `json:"scenario"`
	Workers         int               `json:"workers"`
	BaseDuration    int               `json:"base_duration"`
	Order           string            `json:"order,omitempty"`
	CompletionOrder string            `json:"completion_order,omitempty"`
	Duration        *int              `json:"duration,omitempty"`
	Timeline        []scheduler.Event `json:"timeline,omitempty"`
}

func newReportEntry(r scenarioResult) reportEntry {
	s := r.scenario
	e := reportEntry{
		Scenario:     s.Name,
		Workers:      s.Workers,
		BaseDuration: s.BaseDuration,
	}
	if s.Reports(config.ReportOrder) {
		e.Order = strings.Join(r.result.Order, "")
		e.CompletionOrder = strings.Join(r.result.CompletionOrder, "")
	}
	if s.Reports(config.ReportDuration) {
		d := r.result.Duration
		e.Duration = &d
	}
	if s.Reports(config.ReportTimeline) {
		e.Timeline = r.result.Timeline
	}
	return e
}

func payloads(results []scenarioResult) []any {
	out := make([]any, 0, len(results))
	for _, r := range results {
		out = append(out, newReportEntry(r))
	}
	return out
}

// render writes the whole report in one write so a failure midway leaves
// nothing behind.
func (a *App) render(results []scenarioResult) error {
	var buf bytes.Buffer
	switch a.config.Output {
	case OutputJSON:
		entries := make([]reportEntry, 0, len(results))
		for _, r := range results {
			entries = append(entries, newReportEntry(r))
		}
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	default:
		renderText(&buf, lipgloss.NewRenderer(a.outW), results)
	}
	_, err := a.outW.Write(buf.Bytes())
	return err
}

func renderText(buf *bytes.Buffer, r *lipgloss.Renderer, results []scenarioResult) {
	label := r.NewStyle().Bold(true)
	faint := r.NewStyle().Faint(true)

	for _, res := range results {
		s := res.scenario
		prefix := label.Render("[" + s.Name + "]")

		if s.Reports(config.ReportOrder) {
			fmt.Fprintf(buf, "%s Step order: %s\n", prefix, strings.Join(res.result.Order, ""))
		}
		if s.Reports(config.ReportDuration) {
			fmt.Fprintf(buf, "%s Total time: %d\n", prefix, res.result.Duration)
		}
		if s.Reports(config.ReportTimeline) {
			for _, ev := range res.result.Timeline {
				line := fmt.Sprintf("t=%d worker %d %s %s", ev.Time, ev.Worker, ev.Kind, ev.Task)
				fmt.Fprintf(buf, "%s   %s\n", prefix, faint.Render(line))
			}
		}
	}
}
