// Package pattern implements the Signature/Pattern Matcher of spec §4.1:
// compiling a filter string once and matching it, cheaply, against ground
// symbols produced by the solver.
package pattern

import (
	"sync"

	"github.com/potassco/asperion/pkg/asp/symbol"
)

// Assignment binds pattern variable names to the ground symbols they
// matched. "_" never appears as a key.
type Assignment map[string]symbol.Symbol

// Matcher is a compiled pattern, safe for concurrent use across multiple
// Match calls (it holds no mutable state).
type Matcher struct {
	term symbol.Term
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*Matcher{}
)

// Compile parses pattern once and returns a reusable Matcher. Malformed
// patterns fail here, never inside Match. Compile memoises by the exact
// pattern text.
func Compile(pattern string) (*Matcher, error) {
	cacheMu.Lock()
	if m, ok := cache[pattern]; ok {
		cacheMu.Unlock()
		return m, nil
	}
	cacheMu.Unlock()

	t, err := symbol.ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	m := &Matcher{term: t}

	cacheMu.Lock()
	cache[pattern] = m
	cacheMu.Unlock()
	return m, nil
}

// Match attempts to match s against the compiled pattern, returning the
// variable bindings on success. A repeated variable must bind to an equal
// symbol on every occurrence; "_" always matches and never binds.
func (m *Matcher) Match(s symbol.Symbol) (Assignment, bool) {
	assignment := Assignment{}
	if matchTerm(m.term, s, assignment) {
		return assignment, true
	}
	return nil, false
}

func matchTerm(pat, s symbol.Term, assignment Assignment) bool {
	switch pat.Kind {
	case symbol.KindAnonymous:
		return true
	case symbol.KindVariable:
		if bound, ok := assignment[pat.Name]; ok {
			return bound.Equal(s)
		}
		assignment[pat.Name] = s
		return true
	case symbol.KindNumber:
		return s.Kind == symbol.KindNumber && s.Negative == pat.Negative && s.Num == pat.Num
	case symbol.KindString:
		return s.Kind == symbol.KindString && s.Str == pat.Str
	case symbol.KindSupremum:
		return s.Kind == symbol.KindSupremum
	case symbol.KindInfimum:
		return s.Kind == symbol.KindInfimum
	case symbol.KindFunction:
		if s.Kind != symbol.KindFunction {
			return false
		}
		if pat.Name != s.Name || pat.Negative != s.Negative || len(pat.Args) != len(s.Args) {
			return false
		}
		for i := range pat.Args {
			if !matchTerm(pat.Args[i], s.Args[i], assignment) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// BySignature returns a Matcher equivalent to the §3 BySignature(name,
// arity) filter variant, without going through pattern-string parsing.
func BySignature(name string, arity int) *Matcher {
	args := make([]symbol.Term, arity)
	for i := range args {
		args[i] = symbol.Term{Kind: symbol.KindAnonymous}
	}
	return &Matcher{term: symbol.Term{Kind: symbol.KindFunction, Name: name, Args: args}}
}
