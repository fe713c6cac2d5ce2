// Package observer implements the Solver-Decision Observer of spec
// §4.8: a purely diagnostic walk over a sequence of solver decisions,
// reporting each decision's entailments, grounded on
// original_source/src/clingexplaid/propagators/propagator_solver_decisions.py.
// clingo's Propagator hooks into the solver's own decision trail
// (PropagateInit/PropagateControl); gini exposes neither, so the
// decision trail here is driven by the caller one atom at a time
// through solver.Control.TestAtom/UntestAtom instead of being read off
// an assignment the solver already built.
package observer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/potassco/asperion/pkg/asp/rewrite"
	"github.com/potassco/asperion/pkg/asp/solver"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// Decision mirrors the Python Decision dataclass: a signed literal and
// the ground atom it corresponds to (nil for an internal literal with
// no mapped symbol — this build's solver only ever yields mapped
// atoms, so Atom is never nil here, but Observer carries the field for
// parity and in case a future solver backend exposes internals too).
type Decision struct {
	Literal  int
	Positive bool
	Atom     *symbol.Symbol
}

// String renders d the way the CLI's decision stream prints one line
// per event: a sign prefix, the atom (or "INTERNAL"), and its literal id.
func (d Decision) String() string {
	sign := "[-]"
	if d.Positive {
		sign = "[+]"
	}
	name := "INTERNAL"
	if d.Atom != nil {
		name = d.Atom.String()
	}
	return fmt.Sprintf("%s %s [%d]", sign, name, d.Literal)
}

// MatchesAny reports whether d should be reported under signatures: an
// internal literal is reported iff showInternal; otherwise empty
// signatures report everything, else d must match one signature.
func (d Decision) MatchesAny(signatures []rewrite.Signature, showInternal bool) bool {
	if d.Atom == nil {
		return showInternal
	}
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if d.Atom.MatchSignature(sig.Name, sig.Arity) {
			return true
		}
	}
	return false
}

// Event bundles one decision with the entailments unit propagation
// derived from it, the Go stand-in for SolverDecisionPropagator.propagate's
// per-decision output.
type Event struct {
	Decision  Decision
	Entailed  []Decision
	Satisfied bool // false once the assumed decision made the program unsat
}

// Observer drives a *solver.Control one decision at a time, recording
// each TestAtom call as a Decision plus its Entailed batch. It never
// mutates the program; it only observes what the SAT backend concludes.
type Observer struct {
	control    *solver.Control
	signatures []rewrite.Signature
	trail      []Decision
	nextLit    int
}

// New returns an Observer driving control, reporting only atoms matching
// signatures (nil/empty reports every atom).
func New(control *solver.Control, signatures []rewrite.Signature) *Observer {
	return &Observer{control: control, signatures: signatures}
}

// Decide assumes atom true as the next decision and returns the
// resulting Event, unfiltered: filtering by signature is the caller's
// concern (Stream applies it; a direct caller may want every event).
func (o *Observer) Decide(atom symbol.Symbol) (Event, error) {
	entailed, outcome, err := o.control.TestAtom(atom)
	if err != nil {
		return Event{}, err
	}

	o.nextLit++
	dec := Decision{Literal: o.nextLit, Positive: true, Atom: &atom}
	o.trail = append(o.trail, dec)

	ev := Event{Decision: dec, Satisfied: outcome != -1}
	for _, e := range entailed {
		e := e
		o.nextLit++
		ev.Entailed = append(ev.Entailed, Decision{Literal: o.nextLit, Positive: e.Positive, Atom: &e.Atom})
	}
	return ev, nil
}

// Undo backtracks the most recent Decide call, returning the Decision
// that was undone (the Python reference's on_undo, minus its payload:
// clingo's undo callback carries no literal, ours names the one popped
// for a more useful log line).
func (o *Observer) Undo() (Decision, bool) {
	if len(o.trail) == 0 {
		return Decision{}, false
	}
	o.control.UntestAtom()
	last := o.trail[len(o.trail)-1]
	o.trail = o.trail[:len(o.trail)-1]
	return last, true
}

// Stream drives Decide over order in sequence, stopping early if a
// decision makes the program unsatisfiable, and returns only the
// events whose decision (or, failing that, at least one entailment)
// matches signatures/showInternal.
func (o *Observer) Stream(order []symbol.Symbol, showInternal bool) ([]Event, error) {
	var out []Event
	for _, atom := range order {
		ev, err := o.Decide(atom)
		if err != nil {
			return out, err
		}
		if ev.Decision.MatchesAny(o.signatures, showInternal) || anyMatches(ev.Entailed, o.signatures, showInternal) {
			out = append(out, ev)
		}
		if !ev.Satisfied {
			break
		}
	}
	return out, nil
}

func anyMatches(decisions []Decision, signatures []rewrite.Signature, showInternal bool) bool {
	for _, d := range decisions {
		if d.MatchesAny(signatures, showInternal) {
			return true
		}
	}
	return false
}

// RenderLines flattens events into one line per decision/entailment,
// matching spec §6's "one line per decision/entailment, sign-prefixed"
// CLI output contract.
func RenderLines(events []Event) []string {
	var lines []string
	for _, ev := range events {
		lines = append(lines, ev.Decision.String())
		for _, e := range ev.Entailed {
			lines = append(lines, "  "+e.String())
		}
	}
	return lines
}

// ParseSignatures parses repeatable "name/arity" CLI flag values (spec
// §6's --decision-signature) into Signatures.
func ParseSignatures(values []string) ([]rewrite.Signature, error) {
	out := make([]rewrite.Signature, 0, len(values))
	for _, v := range values {
		idx := strings.LastIndex(v, "/")
		if idx < 0 {
			return nil, fmt.Errorf("malformed signature %q: expected name/arity", v)
		}
		arity, err := strconv.Atoi(v[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("malformed signature %q: %w", v, err)
		}
		out = append(out, rewrite.Signature{Name: v[:idx], Arity: arity})
	}
	return out, nil
}
