package solver

import (
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// atomMapping is this module's litMapping: the translation table between
// ground atoms and the z.Lits of the underlying SAT formula.
type atomMapping struct {
	order []symbol.Symbol
	lits  map[string]z.Lit
	atoms map[z.Lit]symbol.Symbol
	c     *logic.C

	// hard holds every literal that must be assumed true on every solve
	// call: fact atoms, completion implications, and constraint bodies'
	// negations. Asserted via assumeHard on each CheckAssumptions,
	// Minimize solve, and first TestAtom.
	hard []z.Lit
}

func newAtomMapping() *atomMapping {
	return &atomMapping{
		lits:  map[string]z.Lit{},
		atoms: map[z.Lit]symbol.Symbol{},
		c:     logic.NewCCap(64),
	}
}

func (m *atomMapping) litOf(a symbol.Symbol) z.Lit {
	k := a.Key()
	if l, ok := m.lits[k]; ok {
		return l
	}
	l := m.c.Lit()
	m.lits[k] = l
	m.atoms[l] = a
	m.order = append(m.order, a)
	return l
}

func (m *atomMapping) atomOf(l z.Lit) (symbol.Symbol, bool) {
	a, ok := m.atoms[l]
	return a, ok
}

// signedAtomOf normalises l to its positive form before looking it up
// (m.atoms only ever stores the positive literal litOf produced), so a
// negated entailed literal from g.Test still resolves to its atom, with
// positive reporting whether l itself was the positive or negated form.
func (m *atomMapping) signedAtomOf(l z.Lit) (a symbol.Symbol, positive bool, ok bool) {
	if a, ok := m.atoms[l]; ok {
		return a, true, true
	}
	if a, ok := m.atoms[l.Not()]; ok {
		return a, false, true
	}
	return symbol.Symbol{}, false, false
}

func (m *atomMapping) assertHard(l z.Lit) {
	m.hard = append(m.hard, l)
}

// bodyLit returns the circuit literal for the conjunction of body,
// negative literals contributing their .Not() lit.
func (m *atomMapping) bodyLit(body []program.Lit) z.Lit {
	if len(body) == 0 {
		return m.c.T
	}
	lits := make([]z.Lit, len(body))
	for i, l := range body {
		lit := m.litOf(l.Atom)
		if l.Naf {
			lit = lit.Not()
		}
		lits[i] = lit
	}
	return m.c.Ands(lits...)
}

// compile walks a fully-grounded Program and builds the Clark-completion
// circuit the way litMapping.newLitMapping builds one gate per
// Constraint.apply: one hard literal per fact, one pair of implications
// per derived atom's completion, one guard per choice rule, and one
// negated-body literal per integrity constraint.
func compile(p *program.Program) (*atomMapping, error) {
	m := newAtomMapping()

	defsByHead := map[string][]z.Lit{}
	declaredChoice := map[string]bool{}
	declaredFact := map[string]bool{}

	for _, s := range p.Statements {
		switch s.Kind {
		case program.KindFact:
			l := m.litOf(*s.Head)
			declaredFact[s.Head.Key()] = true
			m.assertHard(l)
		case program.KindChoiceFact:
			m.litOf(*s.Head)
			declaredChoice[s.Head.Key()] = true
		case program.KindChoiceRule:
			l := m.litOf(*s.Head)
			guard := m.bodyLit(s.Body)
			m.assertHard(m.c.Or(l.Not(), guard)) // head -> guard
			declaredChoice[s.Head.Key()] = true
		case program.KindRule:
			l := m.litOf(*s.Head)
			body := m.bodyLit(s.Body)
			defsByHead[s.Head.Key()] = append(defsByHead[s.Head.Key()], body)
			_ = l
		case program.KindConstraint:
			body := m.bodyLit(s.Body)
			m.assertHard(body.Not())
		}
	}

	for key, l := range m.lits {
		if declaredFact[key] || declaredChoice[key] {
			continue
		}
		bodies, hasRules := defsByHead[key]
		if !hasRules {
			m.assertHard(l.Not())
			continue
		}
		support := m.c.Ors(bodies...)
		m.assertHard(m.c.Or(l.Not(), support)) // head -> support
		m.assertHard(m.c.Or(l, support.Not())) // support -> head
	}

	return m, nil
}

// addTo teaches the circuit's defining clauses (not the hard assumptions)
// to g, the way litMapping.AddConstraints calls c.ToCnf(g).
func (m *atomMapping) addTo(g inter.S) {
	m.c.ToCnf(g)
}

// assumeHard assumes every hard literal on g, the way
// litMapping.AssumeConstraints loops over d.constraints.
func (m *atomMapping) assumeHard(g inter.S) {
	for _, l := range m.hard {
		g.Assume(l)
	}
}
