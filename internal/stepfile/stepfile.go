// Package stepfile loads plans written one dependency per line:
//
//	Step C must be finished before step A can begin.
//
// Blank lines are skipped. Every other line must match that sentence with
// single-token identifiers, or the load fails with a
// *graph.MalformedEdgeError naming the file and line.
package stepfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/vk/stepgrid/internal/config"
	"github.com/vk/stepgrid/internal/ctxlog"
	"github.com/vk/stepgrid/internal/fsutil"
	"github.com/vk/stepgrid/internal/graph"
)

const (
	prefix    = "Step "
	separator = " must be finished before step "
	suffix    = " can begin."
)

// Loader implements config.Loader for the line format.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader returns a loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load parses every file. Directories contribute their *.txt files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(l.fs, paths, ".txt")
	if err != nil {
		return nil, err
	}

	plan := &config.Plan{}
	for _, name := range files {
		f, err := l.fs.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		edges, err := Parse(name, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		logger.Debug("Parsed step file.", "file", name, "edges", len(edges))
		plan.Edges = append(plan.Edges, edges...)
	}
	return plan, nil
}

// Parse reads edges from r. name is used to locate errors.
func Parse(name string, r io.Reader) ([]graph.Edge, error) {
	var edges []graph.Edge
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			err.Source = fmt.Sprintf("%s:%d", name, lineNo)
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return edges, nil
}

// ParseLine decodes a single dependency sentence.
func ParseLine(line string) (graph.Edge, *graph.MalformedEdgeError) {
	malformed := func(reason string) *graph.MalformedEdgeError {
		return &graph.MalformedEdgeError{Record: line, Reason: reason}
	}

	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, suffix) {
		return graph.Edge{}, malformed(fmt.Sprintf("expected %q", prefix+"<P>"+separator+"<D>"+suffix))
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, prefix), suffix)

	parts := strings.SplitN(body, separator, 2)
	if len(parts) != 2 {
		return graph.Edge{}, malformed("missing " + strings.TrimSpace(separator) + " clause")
	}

	e := graph.Edge{Prerequisite: parts[0], Dependent: parts[1]}
	if err := e.Validate(); err != nil {
		merr := err.(*graph.MalformedEdgeError)
		merr.Record = line
		return graph.Edge{}, merr
	}
	return e, nil
}
