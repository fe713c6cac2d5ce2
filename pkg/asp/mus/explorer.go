package mus

import "github.com/potassco/asperion/pkg/asp/symbol"

// ExplorationStatus is the answer Explorer.Explored gives for a
// candidate subset, spec §4.6.1.
type ExplorationStatus int

const (
	// Unknown means no recorded SAT/MUS set settles the question; a
	// real solve is still required.
	Unknown ExplorationStatus = iota
	// Satisfiable means subset is a subset of some previously recorded
	// satisfiable set, hence is guaranteed satisfiable without solving.
	Satisfiable
	// Unsatisfiable means subset is a superset of some previously
	// recorded MUS, hence is guaranteed unsatisfiable without solving.
	Unsatisfiable
)

// Explorer proposes candidate assumption subsets for Engine.Enumerate to
// test, and records each outcome so later candidates can be pruned
// (spec §4.6.1). The engine is parameterised over this abstraction so
// the powerset and ASP-oracle variants (§4.6.2, §4.6.3) coexist without
// engine changes.
type Explorer interface {
	// Next returns the next candidate subset to test, or ok=false once
	// the explorer is exhausted.
	Next() (subset []symbol.Symbol, ok bool)
	// AddSat records that subset is satisfiable, so every subset of it
	// is also guaranteed satisfiable and need not be tested again.
	AddSat(subset []symbol.Symbol)
	// AddMUS records mus as a confirmed minimal unsatisfiable subset, so
	// every superset of it is guaranteed unsatisfiable (and non-minimal)
	// and need not be tested again.
	AddMUS(mus []symbol.Symbol)
	// Explored is a cheap oracle answering whether subset's
	// satisfiability already follows from a recorded SAT/MUS set,
	// letting the engine skip a redundant solve.
	Explored(subset []symbol.Symbol) ExplorationStatus
	// Reset clears every recorded SAT/MUS set and restarts candidate
	// generation from the beginning.
	Reset()
}

// keySet renders atoms as a set of their canonical Key()s.
func keySet(atoms []symbol.Symbol) map[string]bool {
	m := make(map[string]bool, len(atoms))
	for _, a := range atoms {
		m[a.Key()] = true
	}
	return m
}

// isSuperset reports whether every key of subset is present in superset.
func isSuperset(superset, subset map[string]bool) bool {
	for k := range subset {
		if !superset[k] {
			return false
		}
	}
	return true
}

// isSupersetOfAnySat reports whether subset is a subset of some
// recorded satisfiable set (i.e. some recorded sat is its superset).
func isSupersetOfAnySat(subset []symbol.Symbol, sats [][]symbol.Symbol) bool {
	subKeys := keySet(subset)
	for _, sat := range sats {
		if isSuperset(keySet(sat), subKeys) {
			return true
		}
	}
	return false
}

// isSubsetOfAnyMUS reports whether subset is a superset of some
// recorded MUS (i.e. some recorded MUS is its subset).
func isSubsetOfAnyMUS(subset []symbol.Symbol, muses [][]symbol.Symbol) bool {
	subKeys := keySet(subset)
	for _, mus := range muses {
		if isSuperset(subKeys, keySet(mus)) {
			return true
		}
	}
	return false
}

// combinations returns every r-sized combination of atoms, preserving
// input order within each combination.
func combinations(atoms []symbol.Symbol, r int) [][]symbol.Symbol {
	n := len(atoms)
	if r > n || r < 0 {
		return nil
	}
	var out [][]symbol.Symbol
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]symbol.Symbol, r)
		for i, ix := range idx {
			combo[i] = atoms[ix]
		}
		out = append(out, combo)

		i := r - 1
		for i >= 0 && idx[i] == i+n-r {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
