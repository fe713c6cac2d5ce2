package mus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/potassco/asperion/pkg/asp/solver"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// assumptionAtomName is the meta-program predicate representing "this
// assumption is in the candidate set" (spec §4.6.3: atoms a(i)).
const assumptionAtomName = "a"

// ASPExplorer drives candidate generation from a meta-program over
// choice atoms a(1)..a(n), one per assumption, rather than an explicit
// powerset. add_sat/add_mus append integrity constraints blocking
// supersets of recorded satisfiable sets' complements and MUS findings,
// so repeated candidates are pruned by the solver itself instead of by
// bookkeeping in Go. Grounded on
// original_source/src/clingexplaid/mus/explorers/asp.py, adapted onto
// this module's own solver.Control rather than a clingo.Backend.
type ASPExplorer struct {
	assumptions []symbol.Symbol
	idxOf       map[string]int
	log         *logrus.Entry

	control  *solver.Control
	foundSat [][]symbol.Symbol
	foundMUS [][]symbol.Symbol
	err      error
}

// NewASPExplorer builds the meta-program's initial choice facts over
// assumptions and grounds it. The domain heuristic spec §4.6.3 describes
// ("each choice is made preferring true") is approximated by Next()
// always trying the all-true assignment first, since this module's
// solver has no domain-heuristic hook of its own (see DESIGN.md).
func NewASPExplorer(assumptions []symbol.Symbol, log *logrus.Entry) (*ASPExplorer, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	e := &ASPExplorer{
		assumptions: assumptions,
		idxOf:       make(map[string]int, len(assumptions)),
		log:         log,
	}
	for i, a := range assumptions {
		e.idxOf[a.Key()] = i + 1
	}
	if err := e.rebuildControl(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *ASPExplorer) rebuildControl() error {
	var b strings.Builder
	for i := range e.assumptions {
		fmt.Fprintf(&b, "{%s(%d)}.\n", assumptionAtomName, i+1)
	}
	e.control = solver.New(e.log)
	if err := e.control.AddProgram(b.String(), "mus-explorer"); err != nil {
		return err
	}
	return e.control.Ground()
}

// addConstraint appends a single integrity constraint to the
// meta-program and regrounds (cheap: the meta-program is a handful of
// choice atoms plus one constraint per recorded SAT/MUS set).
func (e *ASPExplorer) addConstraint(body []string) {
	if e.err != nil {
		return
	}
	text := ":- " + strings.Join(body, ", ") + ".\n"
	if err := e.control.AddProgram(text, "mus-explorer"); err != nil {
		e.err = err
		return
	}
	if err := e.control.Ground(); err != nil {
		e.err = err
	}
}

// AddSat adds "⊥ ← ⋀ ¬a(j) for j ∉ subset" (spec §4.6.3), blocking every
// subset of the recorded satisfiable set from ever being proposed again
// (a subset of a known-satisfiable set is itself guaranteed satisfiable).
func (e *ASPExplorer) AddSat(subset []symbol.Symbol) {
	e.foundSat = append(e.foundSat, subset)

	inSubset := keySet(subset)
	var body []string
	for i, a := range e.assumptions {
		if !inSubset[a.Key()] {
			body = append(body, fmt.Sprintf("not %s(%d)", assumptionAtomName, i+1))
		}
	}
	// An empty body here means subset is the full assumption set: the
	// constraint becomes unconditional (":- .", mirroring the original's
	// add_rule([], [])), which is correct — nothing remains to explore.
	e.addConstraint(body)
}

// AddMUS adds "⊥ ← ⋀ a(j) for j ∈ mus" (spec §4.6.3), blocking every
// superset of mus from ever being proposed again.
func (e *ASPExplorer) AddMUS(mus []symbol.Symbol) {
	if len(mus) == 0 {
		return
	}
	e.foundMUS = append(e.foundMUS, mus)

	body := make([]string, 0, len(mus))
	for _, a := range mus {
		idx, ok := e.idxOf[a.Key()]
		if !ok {
			continue
		}
		body = append(body, fmt.Sprintf("%s(%d)", assumptionAtomName, idx))
	}
	e.addConstraint(body)
}

// Explored answers from the recorded SAT/MUS sets alone, without
// touching the meta-program (spec §4.6.1's "cheap oracle").
func (e *ASPExplorer) Explored(subset []symbol.Symbol) ExplorationStatus {
	if isSupersetOfAnySat(subset, e.foundSat) {
		return Satisfiable
	}
	if isSubsetOfAnyMUS(subset, e.foundMUS) {
		return Unsatisfiable
	}
	return Unknown
}

// Next solves the meta-program for one model: first trying every a(i)
// assumed true (the "prefer true" domain heuristic), then falling back
// to an unconstrained solve if the all-true assignment is already
// blocked, then reporting exhaustion once neither succeeds.
func (e *ASPExplorer) Next() ([]symbol.Symbol, bool) {
	if e.err != nil {
		return nil, false
	}

	allTrue := make([]symbol.Symbol, len(e.assumptions))
	for i := range e.assumptions {
		allTrue[i] = symbol.Function(assumptionAtomName, symbol.Number(i+1))
	}

	if model, ok := e.solveFor(allTrue); ok {
		return model, true
	}
	if model, ok := e.solveFor(nil); ok {
		return model, true
	}
	return nil, false
}

func (e *ASPExplorer) solveFor(assume []symbol.Symbol) ([]symbol.Symbol, bool) {
	model, err := e.control.CheckAssumptions(assume)
	if err != nil {
		if _, ok := err.(solver.NotSatisfiable); ok {
			return nil, false
		}
		e.err = err
		e.log.WithError(err).Error("mus.ASPExplorer: meta-program solve failed")
		return nil, false
	}
	return e.candidateFromModel(model), true
}

// candidateFromModel reads which a(i) atoms are true in model and maps
// each back to its original assumption, in assumption order.
func (e *ASPExplorer) candidateFromModel(model []symbol.Symbol) []symbol.Symbol {
	true_ := make(map[int]bool, len(model))
	for _, s := range model {
		if s.MatchSignature(assumptionAtomName, 1) && s.Args[0].Kind == symbol.KindNumber {
			true_[s.Args[0].Num] = true
		}
	}
	var out []symbol.Symbol
	idxs := make([]int, 0, len(true_))
	for idx := range true_ {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	for _, idx := range idxs {
		if idx >= 1 && idx <= len(e.assumptions) {
			out = append(out, e.assumptions[idx-1])
		}
	}
	return out
}

// Reset discards every recorded SAT/MUS set and rebuilds the
// meta-program from its initial choice facts.
func (e *ASPExplorer) Reset() {
	e.foundSat = nil
	e.foundMUS = nil
	e.err = nil
	if err := e.rebuildControl(); err != nil {
		e.err = err
	}
}
