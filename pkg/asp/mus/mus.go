// Package mus implements the MUS Engine of spec §4.5-§4.6: single
// minimal-unsatisfiable-subset search via iterative deletion, and
// multi-MUS enumeration driven by a pluggable Explorer, grounded
// directly on original_source/src/clingexplaid/mus/core_computer.py
// and .../mus/explorers/*.py.
package mus

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/potassco/asperion/pkg/asp/asperr"
	"github.com/potassco/asperion/pkg/asp/solver"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// UnsatisfiableSubset is a set of assumption atoms found to be
// unsatisfiable together with the program; Minimal records whether
// iterative deletion ran to completion (false means a deadline expired
// mid-search and the subset returned may not be minimal).
type UnsatisfiableSubset struct {
	Atoms   []symbol.Symbol
	Minimal bool
}

// Strings renders each member atom's text form, sorted for stable
// output (core_computer.py's mus_to_string).
func (u UnsatisfiableSubset) Strings() []string {
	out := make([]string, len(u.Atoms))
	for i, a := range u.Atoms {
		out[i] = a.String()
	}
	sort.Strings(out)
	return out
}

// Engine computes MUSes over a grounded solver.Control and a fixed
// candidate assumption set.
type Engine struct {
	Control     *solver.Control
	Assumptions []symbol.Symbol
	log         *logrus.Entry
}

// New returns an Engine searching over assumptions against the given
// (already-grounded) control.
func New(control *solver.Control, assumptions []symbol.Symbol, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if len(assumptions) == 0 {
		log.Warn("no assumptions available to compute a minimal unsatisfiable subset over")
	}
	return &Engine{Control: control, Assumptions: assumptions, log: log}
}

func (e *Engine) solve(assumptions []symbol.Symbol) (bool, []symbol.Symbol) {
	_, err := e.Control.CheckAssumptions(assumptions)
	if err == nil {
		return true, nil
	}
	var ns solver.NotSatisfiable
	if asErr, ok := err.(solver.NotSatisfiable); ok {
		ns = asErr
	}
	return false, []symbol.Symbol(ns)
}

// deadlineExceeded reports whether the monotonic wall-clock deadline has
// passed. A zero Time means "no deadline" (spec §4.5/§4.6's optional T).
func deadlineExceeded(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

// Shrink computes a single MUS via iterative deletion
// (_compute_single_minimal): starting from assumptions (Engine.Assumptions
// if nil), it tries removing each candidate one at a time, keeping it in
// the working MUS only when the remaining set stays satisfiable without
// it, and stops as soon as the members found so far are already
// unsatisfiable on their own. deadline is the monotonic wall-clock
// checkpoint of spec §4.5 step 3e: a zero Time disables it, and an
// expired deadline aborts the loop between assumptions and reports
// Minimal: false (asperr.Timeout's recovery path — non-fatal).
func (e *Engine) Shrink(assumptions []symbol.Symbol, deadline time.Time) UnsatisfiableSubset {
	if assumptions == nil {
		assumptions = e.Assumptions
	}
	if len(assumptions) == 0 {
		return UnsatisfiableSubset{Minimal: true}
	}

	if sat, _ := e.solve(assumptions); sat {
		return UnsatisfiableSubset{Minimal: true}
	}

	members := map[string]symbol.Symbol{}
	working := map[string]symbol.Symbol{}
	for _, a := range assumptions {
		working[a.Key()] = a
	}

	minimal := true
	for _, a := range assumptions {
		delete(working, a.Key())

		trial := unionKeys(working, members)
		if sat, _ := e.solve(trial); sat {
			members[a.Key()] = a
			if sat2, _ := e.solve(mapValues(members)); !sat2 {
				break
			}
		}

		if deadlineExceeded(deadline) {
			e.log.WithError(&asperr.Timeout{Op: "mus.Engine.Shrink"}).
				Warn("deadline exceeded mid-shrink: returning non-minimal subset")
			minimal = false
			break
		}
	}

	return UnsatisfiableSubset{Atoms: mapValues(members), Minimal: minimal}
}

func unionKeys(a, b map[string]symbol.Symbol) []symbol.Symbol {
	seen := map[string]bool{}
	var out []symbol.Symbol
	for k, v := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	for k, v := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

func mapValues(m map[string]symbol.Symbol) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// ErrEmptyAssumptions reports that Shrink or Enumerate was asked to
// search over zero candidate assumptions (spec §7 EmptyAssumptionSet:
// recovered by the caller, not fatal).
var ErrEmptyAssumptions = &asperr.EmptyAssumptionSet{}

// Enumerate streams every distinct MUS found within Engine.Assumptions,
// proposing candidates from explorer (spec §4.6.1's dynamic-dispatch
// Explorer abstraction — pass a *PowersetExplorer or *ASPExplorer, or
// nil to default to NewPowersetExplorer(e.Assumptions)) and shrinking
// each one via Shrink. Stops when the Explorer is exhausted, when
// maxMUS MUSes have been yielded (0 means unbounded), or when deadline
// expires between candidate proposals (spec §4.6) or mid-shrink; a
// deadline expiry halts enumeration cleanly without discarding MUSes
// already yielded.
func (e *Engine) Enumerate(explorer Explorer, maxMUS int, deadline time.Time) []UnsatisfiableSubset {
	if explorer == nil {
		explorer = NewPowersetExplorer(e.Assumptions)
	}

	var results []UnsatisfiableSubset
	for {
		if deadlineExceeded(deadline) {
			break
		}

		subset, ok := explorer.Next()
		if !ok {
			break
		}
		if explorer.Explored(subset) != Unknown {
			continue
		}

		result := e.Shrink(subset, deadline)

		if !result.Minimal {
			// Deadline expired mid-shrink: an empty Atoms here is
			// inconclusive (timed out before any member was confirmed),
			// not a confirmed SAT candidate, so it is not recorded via
			// AddSat. A non-empty partial result is still a genuine
			// (if possibly non-minimal) unsatisfiable subset and is kept.
			if len(result.Atoms) > 0 {
				explorer.AddMUS(result.Atoms)
				results = append(results, result)
			}
			break
		}

		if len(result.Atoms) == 0 {
			explorer.AddSat(subset)
			continue
		}

		explorer.AddMUS(result.Atoms)
		results = append(results, result)
		if maxMUS > 0 && len(results) == maxMUS {
			break
		}
	}
	return results
}
