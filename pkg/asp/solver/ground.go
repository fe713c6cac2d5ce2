package solver

import (
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// groundEngine performs the variable instantiation a real ASP grounder
// hands the solver pre-done: a naive bottom-up fixpoint join, scoped to
// the normal (non-disjunctive) rules this module's rewrite transformers
// produce. Safety is the same requirement clingo's grounder enforces:
// every variable in a rule must occur in a positive (non-naf) body
// literal.
type groundEngine struct {
	known    map[string]symbol.Symbol
	byPred   map[predKey][]symbol.Symbol
	seenStmt map[string]bool

	// trueByPred holds only atoms guaranteed true at this point in the
	// fixpoint: genuine facts and heads derived by a plain (non-choice)
	// rule. Choice facts/choice-rule heads are registered in byPred (so a
	// positive body literal can still join against them) but never here,
	// since a choice atom's truth is undetermined until the solver picks
	// a model — negation-as-failure may not treat "registered as a
	// possible atom" as "known true".
	trueByPred map[predKey][]symbol.Symbol
}

type predKey struct {
	name  string
	arity int
}

func newGroundEngine() *groundEngine {
	return &groundEngine{
		known:      map[string]symbol.Symbol{},
		byPred:     map[predKey][]symbol.Symbol{},
		seenStmt:   map[string]bool{},
		trueByPred: map[predKey][]symbol.Symbol{},
	}
}

func (g *groundEngine) add(a symbol.Symbol) bool {
	k := a.Key()
	if _, ok := g.known[k]; ok {
		return false
	}
	g.known[k] = a
	pk := predKey{a.Name, len(a.Args)}
	g.byPred[pk] = append(g.byPred[pk], a)
	return true
}

func (g *groundEngine) addTrue(a symbol.Symbol) {
	pk := predKey{a.Name, len(a.Args)}
	g.trueByPred[pk] = append(g.trueByPred[pk], a)
}

// groundProgram instantiates every rule, choice rule, and constraint in
// p against the ground facts/choice facts it contains, iterating to a
// fixpoint. The result contains only ground statements: facts and choice
// facts unchanged, and one ground Stmt per (rule, satisfying assignment)
// pair found during the join.
func groundProgram(p *program.Program) (*program.Program, error) {
	g := newGroundEngine()
	out := &program.Program{}

	for _, s := range p.Statements {
		switch s.Kind {
		case program.KindFact, program.KindChoiceFact:
			if s.Head == nil {
				continue
			}
			for _, inst := range symbol.Unpool(*s.Head) {
				if !inst.IsGround() {
					continue
				}
				inst := inst
				out.Statements = append(out.Statements, program.Stmt{Kind: s.Kind, Loc: s.Loc, Head: &inst})
				g.add(inst)
				if s.Kind == program.KindFact {
					g.addTrue(inst)
				}
			}
		case program.KindConstDef:
			out.Statements = append(out.Statements, s)
		}
	}

	for changed := true; changed; {
		changed = false
		for _, s := range p.Statements {
			switch s.Kind {
			case program.KindRule, program.KindChoiceRule, program.KindConstraint:
				for _, assignment := range joinBody(s.Body, g.byPred, g.trueByPred) {
					groundBody, ok := substBody(s.Body, assignment)
					if !ok {
						continue
					}
					var head *symbol.Term
					if s.Head != nil {
						h := substTerm(*s.Head, assignment)
						if !h.IsGround() {
							continue
						}
						head = &h
					}
					key := groundStmtKey(s.Kind, head, groundBody)
					if g.seenStmt[key] {
						continue
					}
					g.seenStmt[key] = true
					changed = true
					out.Statements = append(out.Statements, program.Stmt{
						Kind: s.Kind,
						Loc:  s.Loc,
						Head: head,
						Body: groundBody,
					})
					if head != nil && s.Kind != program.KindConstraint {
						if g.add(*head) {
							changed = true
						}
						if s.Kind == program.KindRule {
							g.addTrue(*head)
						}
					}
				}
			}
		}
	}

	return out, nil
}

func groundStmtKey(kind program.Kind, head *symbol.Term, body []program.Lit) string {
	s := ""
	if head != nil {
		s = head.String()
	}
	s += "|"
	for _, l := range body {
		s += l.String() + ","
	}
	return s
}

// joinBody enumerates every variable assignment that satisfies every
// positive literal of body against known facts (including choice facts,
// for positive joining), then filters by the negative-as-failure
// literals checked only against trueByPred — atoms guaranteed true at
// this point in the fixpoint — so a negated choice atom is left for the
// solver to decide rather than pruned away during grounding.
func joinBody(body []program.Lit, byPred, trueByPred map[predKey][]symbol.Symbol) []map[string]symbol.Symbol {
	var positive, negative []program.Lit
	for _, l := range body {
		if l.Naf {
			negative = append(negative, l)
		} else {
			positive = append(positive, l)
		}
	}

	assignments := []map[string]symbol.Symbol{{}}
	for _, lit := range positive {
		var next []map[string]symbol.Symbol
		pk := predKey{lit.Atom.Name, len(lit.Atom.Args)}
		candidates := byPred[pk]
		for _, assignment := range assignments {
			for _, cand := range candidates {
				ext := cloneAssignment(assignment)
				if unify(lit.Atom, cand, ext) {
					next = append(next, ext)
				}
			}
		}
		assignments = next
		if len(assignments) == 0 {
			return nil
		}
	}

	var out []map[string]symbol.Symbol
	for _, assignment := range assignments {
		ok := true
		for _, lit := range negative {
			ground := substTermOrNil(lit.Atom, assignment)
			if ground == nil {
				ok = false
				break
			}
			pk := predKey{ground.Name, len(ground.Args)}
			for _, known := range trueByPred[pk] {
				if known.Equal(*ground) {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
		}
		if ok {
			out = append(out, assignment)
		}
	}
	return out
}

func cloneAssignment(a map[string]symbol.Symbol) map[string]symbol.Symbol {
	out := make(map[string]symbol.Symbol, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// unify extends assignment in place so that substituting it into pat
// yields cand; returns false if pat and cand cannot be unified given the
// bindings already present.
func unify(pat, cand symbol.Term, assignment map[string]symbol.Symbol) bool {
	switch pat.Kind {
	case symbol.KindAnonymous:
		return true
	case symbol.KindVariable:
		if bound, ok := assignment[pat.Name]; ok {
			return bound.Equal(cand)
		}
		assignment[pat.Name] = cand
		return true
	case symbol.KindNumber:
		return cand.Kind == symbol.KindNumber && cand.Negative == pat.Negative && cand.Num == pat.Num
	case symbol.KindString:
		return cand.Kind == symbol.KindString && cand.Str == pat.Str
	case symbol.KindSupremum:
		return cand.Kind == symbol.KindSupremum
	case symbol.KindInfimum:
		return cand.Kind == symbol.KindInfimum
	case symbol.KindFunction:
		if cand.Kind != symbol.KindFunction || pat.Name != cand.Name || pat.Negative != cand.Negative || len(pat.Args) != len(cand.Args) {
			return false
		}
		for i := range pat.Args {
			if !unify(pat.Args[i], cand.Args[i], assignment) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func substTerm(t symbol.Term, assignment map[string]symbol.Symbol) symbol.Term {
	switch t.Kind {
	case symbol.KindVariable:
		if bound, ok := assignment[t.Name]; ok {
			return bound
		}
		return t
	case symbol.KindFunction:
		args := make([]symbol.Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = substTerm(a, assignment)
		}
		return symbol.Term{Kind: symbol.KindFunction, Name: t.Name, Negative: t.Negative, Args: args}
	default:
		return t
	}
}

func substTermOrNil(t symbol.Term, assignment map[string]symbol.Symbol) *symbol.Term {
	out := substTerm(t, assignment)
	if !out.IsGround() {
		return nil
	}
	return &out
}

func substBody(body []program.Lit, assignment map[string]symbol.Symbol) ([]program.Lit, bool) {
	out := make([]program.Lit, len(body))
	for i, l := range body {
		g := substTerm(l.Atom, assignment)
		if !g.IsGround() {
			return nil, false
		}
		out[i] = program.Lit{Naf: l.Naf, Atom: g}
	}
	return out, true
}
