package graph

import (
	"fmt"
	"strings"
	"unicode"
)

// Edge means Prerequisite must complete before Dependent may start.
type Edge struct {
	Prerequisite string
	Dependent    string
}

// String renders the edge as "P -> D".
func (e Edge) String() string {
	return e.Prerequisite + " -> " + e.Dependent
}

// Validate reports whether both sides of the edge are single identifiers.
func (e Edge) Validate() error {
	if err := validateID(e.Prerequisite); err != nil {
		return &MalformedEdgeError{Record: e.String(), Reason: "prerequisite " + err.Error()}
	}
	if err := validateID(e.Dependent); err != nil {
		return &MalformedEdgeError{Record: e.String(), Reason: "dependent " + err.Error()}
	}
	return nil
}

// NewEdge builds an edge from a raw two-field record, such as a YAML
// sequence or a split line. Anything other than exactly two identifiers is a
// *MalformedEdgeError.
func NewEdge(source string, fields []string) (Edge, error) {
	record := strings.Join(fields, " ")
	if len(fields) != 2 {
		return Edge{}, &MalformedEdgeError{
			Source: source,
			Record: record,
			Reason: fmt.Sprintf("expected 2 identifiers, got %d", len(fields)),
		}
	}
	e := Edge{Prerequisite: fields[0], Dependent: fields[1]}
	if err := e.Validate(); err != nil {
		merr := err.(*MalformedEdgeError)
		merr.Source = source
		merr.Record = record
		return Edge{}, merr
	}
	return e, nil
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("is empty")
	}
	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%q is not a single identifier", id)
	}
	return nil
}
