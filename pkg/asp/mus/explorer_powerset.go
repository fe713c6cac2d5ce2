package mus

import "github.com/potassco/asperion/pkg/asp/symbol"

// PowersetExplorer enumerates subsets of a fixed assumption set in
// descending-cardinality order, skipping a candidate once it is implied
// redundant by a recorded SAT superset or MUS subset. Grounded on
// original_source/src/clingexplaid/mus/explorers/powerset.py.
type PowersetExplorer struct {
	assumptions []symbol.Symbol
	combos      [][]symbol.Symbol
	pos         int
	foundSat    [][]symbol.Symbol
	foundMUS    [][]symbol.Symbol
}

// NewPowersetExplorer returns an explorer over every non-empty subset of
// assumptions, largest first.
func NewPowersetExplorer(assumptions []symbol.Symbol) *PowersetExplorer {
	e := &PowersetExplorer{assumptions: assumptions}
	e.buildCombos()
	return e
}

func (e *PowersetExplorer) buildCombos() {
	e.combos = nil
	for size := len(e.assumptions); size >= 1; size-- {
		e.combos = append(e.combos, combinations(e.assumptions, size)...)
	}
	e.pos = 0
}

// Next returns the next not-yet-pruned candidate, in descending
// cardinality order.
func (e *PowersetExplorer) Next() ([]symbol.Symbol, bool) {
	for e.pos < len(e.combos) {
		subset := e.combos[e.pos]
		e.pos++
		if isSupersetOfAnySat(subset, e.foundSat) {
			continue
		}
		if isSubsetOfAnyMUS(subset, e.foundMUS) {
			continue
		}
		return subset, true
	}
	return nil, false
}

// AddSat records subset as satisfiable.
func (e *PowersetExplorer) AddSat(subset []symbol.Symbol) {
	e.foundSat = append(e.foundSat, subset)
}

// AddMUS records mus as a confirmed MUS.
func (e *PowersetExplorer) AddMUS(mus []symbol.Symbol) {
	e.foundMUS = append(e.foundMUS, mus)
}

// Explored answers from the recorded SAT/MUS sets alone.
func (e *PowersetExplorer) Explored(subset []symbol.Symbol) ExplorationStatus {
	if isSupersetOfAnySat(subset, e.foundSat) {
		return Satisfiable
	}
	if isSubsetOfAnyMUS(subset, e.foundMUS) {
		return Unsatisfiable
	}
	return Unknown
}

// Reset clears recorded SAT/MUS sets and restarts candidate generation
// from the largest subset.
func (e *PowersetExplorer) Reset() {
	e.foundSat = nil
	e.foundMUS = nil
	e.buildCombos()
}
