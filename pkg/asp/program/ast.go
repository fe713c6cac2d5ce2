// Package program implements a statement-level parser and AST for the
// slice of ASP syntax the rewrite transformers need to see: facts, rules,
// integrity constraints, choice rules, #const declarations, and
// #minimize/#maximize statements. It is the Go stand-in for clingo.ast,
// scoped down to exactly what those transformers touch (spec §4.2–§4.4);
// full ASP grounding semantics remain the external solver's job.
package program

import (
	"fmt"
	"strings"

	"github.com/potassco/asperion/pkg/asp/symbol"
)

// Kind discriminates the statements this package understands.
type Kind int

const (
	KindFact Kind = iota
	KindRule
	KindConstraint
	KindChoiceFact
	KindChoiceRule
	KindConstDef
	KindMinimize
	KindOther // #show, comments, #include, anything we pass through untouched
)

// Location is the (file, line-range) a statement was parsed from,
// spec §3's source_location.
type Location struct {
	File      string
	BeginLine int
	EndLine   int
}

// Lit is a body literal: an atom, optionally negated-as-failure.
type Lit struct {
	Naf  bool
	Atom symbol.Term
}

func (l Lit) String() string {
	if l.Naf {
		return "not " + l.Atom.String()
	}
	return l.Atom.String()
}

// Stmt is one top-level program statement.
type Stmt struct {
	Kind Kind
	Loc  Location

	// Head is the rule/fact/choice head atom. It may contain KindRange
	// arguments prior to unpooling. Nil for KindConstraint.
	Head *symbol.Term
	Body []Lit

	ConstName  string
	ConstValue symbol.Term

	// Raw holds the original statement text (without trailing '.') for
	// kinds this package does not structurally model (KindMinimize,
	// KindOther) so they round-trip unchanged.
	Raw string
}

// String renders the statement back to ASP source text.
func (s Stmt) String() string {
	switch s.Kind {
	case KindFact:
		return s.Head.String() + "."
	case KindRule:
		return s.Head.String() + " :- " + joinLits(s.Body) + "."
	case KindConstraint:
		return ":- " + joinLits(s.Body) + "."
	case KindChoiceFact:
		return "{" + s.Head.String() + "}."
	case KindChoiceRule:
		return "{" + s.Head.String() + "} :- " + joinLits(s.Body) + "."
	case KindConstDef:
		return fmt.Sprintf("#const %s = %s.", s.ConstName, s.ConstValue.String())
	default:
		return s.Raw + "."
	}
}

func joinLits(lits []Lit) string {
	parts := make([]string, len(lits))
	for i, l := range lits {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

// IsFact reports whether s is a genuine fact: a rule with a literal head
// and an empty body (spec §3 invariant on assumption eligibility).
func (s Stmt) IsFact() bool { return s.Kind == KindFact }

// Program is a parsed ASP source unit.
type Program struct {
	Statements []Stmt
}

// String re-serialises the program, one statement per line, in the
// stable input order spec §4.2 requires.
func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

// Clone returns a deep-enough copy of p suitable for a transformer to
// mutate without affecting the caller's copy (transformers never share
// Stmt slices across calls).
func (p *Program) Clone() *Program {
	out := &Program{Statements: make([]Stmt, len(p.Statements))}
	copy(out.Statements, p.Statements)
	return out
}
