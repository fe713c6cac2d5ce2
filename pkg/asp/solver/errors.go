package solver

import (
	"fmt"
	"strings"

	"github.com/potassco/asperion/pkg/asp/asperr"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// ErrNotGrounded is returned by any Control method that requires a
// grounded program (CheckAssumptions, SymbolicAtoms, TestAtom, Minimize) when
// Ground has not yet been called successfully.
var ErrNotGrounded error = &asperr.NotGrounded{Component: "solver"}

// NotSatisfiable is returned by CheckAssumptions when the assumed atoms,
// together with the program's hard rules and constraints, admit no
// model. Its value is the unsat core: the subset of the assumptions that
// the SAT backend reports as involved in the conflict (internal program
// constraints are never listed), in the same shape as a dependency resolver's applied-
// constraint conflict trace.
type NotSatisfiable []symbol.Symbol

func (e NotSatisfiable) Error() string {
	if len(e) == 0 {
		return "constraints not satisfiable"
	}
	s := make([]string, len(e))
	for i, a := range e {
		s[i] = a.String()
	}
	return fmt.Sprintf("constraints not satisfiable: %s", strings.Join(s, ", "))
}

// DuplicateAtom reports that grounding produced the same ground atom via
// two structurally distinct statements in a way that violated an
// internal invariant; this should never happen for a well-formed program
// and signals a bug in the grounder rather than a user error.
type DuplicateAtom symbol.Symbol

func (e DuplicateAtom) Error() string {
	return fmt.Sprintf("duplicate atom %q produced during grounding", symbol.Symbol(e).String())
}
