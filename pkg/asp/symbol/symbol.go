// Package symbol implements the ground-term data model shared by the
// pattern matcher and the program parser: clingo's Symbol, generalised just
// enough to also represent the variable- and range-bearing terms that occur
// in patterns and unground fact heads before unpooling.
package symbol

import (
	"strconv"
	"strings"
)

// Kind discriminates the shape of a Term.
type Kind int

const (
	// KindFunction covers plain atoms (arity 0), compound terms, and
	// tuples (Name == "").
	KindFunction Kind = iota
	KindNumber
	KindString
	KindInfimum
	KindSupremum
	KindVariable
	KindAnonymous
	// KindRange represents an unexpanded "Lo..Hi" term; it only ever
	// appears inside Args prior to unpooling and is never a ground Symbol.
	KindRange
)

// Term is both a ground Symbol (solver-produced, Kind never Variable,
// Anonymous, or Range) and a pattern/program term (which may contain
// those). Negative marks classical negation on a function atom ("-p(X)")
// or a unary-minus numeric literal.
type Term struct {
	Kind     Kind
	Name     string // function/tuple name ("" for tuples), or variable name
	Num      int
	Str      string
	Args     []Term
	Negative bool
}

// Symbol is the ground-only view of Term used throughout the rest of the
// module; the solver is the only thing that constructs them (spec §3).
type Symbol = Term

// Arity returns len(Args); meaningful for KindFunction.
func (t Term) Arity() int { return len(t.Args) }

// IsGround reports whether t (and everything beneath it) contains no
// variables, anonymous variables, or unexpanded ranges.
func (t Term) IsGround() bool {
	switch t.Kind {
	case KindVariable, KindAnonymous, KindRange:
		return false
	}
	for _, a := range t.Args {
		if !a.IsGround() {
			return false
		}
	}
	return true
}

// MatchSignature reports whether t is a ground function atom with the
// given name and arity (the BySignature filter of spec §3/§4.1).
func (t Term) MatchSignature(name string, arity int) bool {
	return t.Kind == KindFunction && t.Name == name && len(t.Args) == arity
}

// Key returns a canonical string usable as a map key for ground terms.
// Two ground symbols are equal iff their Key()s are equal.
func (t Term) Key() string { return t.String() }

// Equal compares two (ground) terms structurally via their canonical form.
func (t Term) Equal(other Term) bool { return t.Key() == other.Key() }

// String renders t the way clingo would print the corresponding symbol or
// AST term: "-p(1,X)", "(1,2)" for tuples, "#sup", "#inf", quoted strings.
func (t Term) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Term) write(b *strings.Builder) {
	switch t.Kind {
	case KindNumber:
		if t.Negative {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(t.Num))
	case KindString:
		b.WriteByte('"')
		b.WriteString(t.Str)
		b.WriteByte('"')
	case KindInfimum:
		b.WriteString("#inf")
	case KindSupremum:
		b.WriteString("#sup")
	case KindVariable:
		b.WriteString(t.Name)
	case KindAnonymous:
		b.WriteByte('_')
	case KindRange:
		t.Args[0].write(b)
		b.WriteString("..")
		t.Args[1].write(b)
	case KindFunction:
		if t.Negative {
			b.WriteByte('-')
		}
		b.WriteString(t.Name)
		if t.Name == "" || len(t.Args) > 0 {
			b.WriteByte('(')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteByte(',')
				}
				a.write(b)
			}
			b.WriteByte(')')
		}
	}
}

// Function constructs a ground function-atom (or tuple, if name == "").
func Function(name string, args ...Term) Term {
	return Term{Kind: KindFunction, Name: name, Args: args}
}

// Unpool expands every KindRange argument of t into the cartesian
// product of concrete ground instances, clingo's pooling operator
// restricted to the numeric "Lo..Hi" ranges this package's parser
// produces (spec §4.2: "unpool H into its ground instances ... by
// expanding 1..N ranges"). A t with no range arguments unpools to
// itself. Ranges nested inside a tuple/compound argument are expanded
// too, depth-first.
func Unpool(t Term) []Term {
	if t.Kind != KindFunction {
		return []Term{t}
	}
	return unpoolArgsFrom(t, 0)
}

func unpoolArgsFrom(t Term, i int) []Term {
	if i >= len(t.Args) {
		return []Term{t}
	}
	arg := t.Args[i]
	if arg.Kind == KindRange {
		lo, hi := arg.Args[0].Num, arg.Args[1].Num
		var out []Term
		for v := lo; v <= hi; v++ {
			next := t
			next.Args = append(append([]Term{}, t.Args[:i]...), append([]Term{Number(v)}, t.Args[i+1:]...)...)
			out = append(out, unpoolArgsFrom(next, i+1)...)
		}
		return out
	}
	if len(arg.Args) > 0 {
		var out []Term
		for _, expanded := range unpoolArgsFrom(arg, 0) {
			next := t
			next.Args = append(append([]Term{}, t.Args[:i]...), append([]Term{expanded}, t.Args[i+1:]...)...)
			out = append(out, unpoolArgsFrom(next, i+1)...)
		}
		return out
	}
	return unpoolArgsFrom(t, i+1)
}

// Number constructs a ground numeric term.
func Number(n int) Term {
	return Term{Kind: KindNumber, Num: n}
}

// String constructs a ground string term.
func String(s string) Term {
	return Term{Kind: KindString, Str: s}
}
