// Package asperr collects the typed/sentinel error taxonomy shared by
// every asperion package (spec §7). Callers use errors.As/errors.Is
// against these types rather than string-matching messages, following
// the wrapping idiom github.com/pkg/errors establishes in the resolver
// solver this module is grounded on.
package asperr

import "fmt"

// ParseError reports a malformed ASP statement or term. Location is a
// "file:line" string, left blank when the input has no file origin.
type ParseError struct {
	Location string
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("parse error: %s", e.Msg)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Location, e.Msg)
}

// Unprocessed reports that a component received a program that has not
// been run through a required transformer first (e.g. the
// AssumptionTransformer's assumption set requested before Transform
// has been called).
type Unprocessed struct {
	Component string
	Reason    string
}

func (e *Unprocessed) Error() string {
	return fmt.Sprintf("%s: unprocessed input: %s", e.Component, e.Reason)
}

// NotGrounded reports that grounding was requested or assumed complete
// but the underlying solver has not been grounded yet.
type NotGrounded struct {
	Component string
}

func (e *NotGrounded) Error() string {
	return fmt.Sprintf("%s: program has not been grounded", e.Component)
}

// EmptyAssumptionSet signals that no assumptions matched the requested
// filters. Per spec §4.2 this is recovered from by the caller (logged as
// a warning, engine proceeds with zero assumptions) rather than treated
// as fatal; it is still a distinct type so callers can choose to escalate.
type EmptyAssumptionSet struct {
	Filters []string
}

func (e *EmptyAssumptionSet) Error() string {
	if len(e.Filters) == 0 {
		return "no facts available to convert to assumptions"
	}
	return fmt.Sprintf("no facts matched assumption filters %v", e.Filters)
}

// SolverError wraps a failure reported by the underlying SAT backend
// (CNF compilation, Assume/Solve failure unrelated to unsatisfiability).
type SolverError struct {
	Op  string
	Err error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver: %s: %v", e.Op, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

// Timeout reports that a solve or shrink operation exceeded its
// deadline. Per spec §4.5 this is recovered: the engine logs this error
// as a warning and returns the best (possibly non-minimal) subset found
// so far, without returning the error itself.
type Timeout struct {
	Op string
}

func (e *Timeout) Error() string {
	return fmt.Sprintf("%s: deadline exceeded", e.Op)
}

// LocatorUninitialised reports a call into the Unsat-Constraint Locator
// before it has been given a program to parse.
type LocatorUninitialised struct{}

func (e *LocatorUninitialised) Error() string {
	return "unsat-constraint locator: no program loaded"
}
