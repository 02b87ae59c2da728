// Package egerr defines the single fatal-error type shared by every stage
// of the pipeline. Every fatal condition is carried by one error kind and
// converted into a one-element output list at the top level; no partial
// output is ever emitted once an EngineError is raised.
package egerr

import "fmt"

// Kind enumerates the fatal error categories the engine can raise.
type Kind string

const (
	BadArguments        Kind = "bad arguments"
	ParseError          Kind = "parse error"
	Unsupported         Kind = "unsupported"
	PointlessAlternation Kind = "pointless alternation"
	PointlessRepeat     Kind = "pointless repeat"
	BadRange            Kind = "bad range"
	Internal            Kind = "internal"
)

// EngineError is the sole fatal-error type raised anywhere in the pipeline.
type EngineError struct {
	Kind    Kind
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("ERROR (%s): %s", e.Kind, e.Message)
}

// New constructs an EngineError of the given kind.
func New(kind Kind, format string, args ...any) *EngineError {
	return &EngineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
