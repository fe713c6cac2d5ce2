// Package solver internalises an external grounder+solver as a
// gini-backed ground-program solver, built the way a dependency
// resolver builds its SAT-backed constraint solver (litMapping
// translation table, Assume/Solve/Why, CardSort-based optimisation),
// instead of shelling out to a clingo binary.
package solver

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"

	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// Control is this module's stand-in for clingo.Control: it ingests
// program text, grounds it, and answers satisfiability queries over
// assumptions the way a real ASP solver would, but restricted to the
// normal (non-disjunctive), stratified-negation programs the rewrite
// transformers produce (see DESIGN.md Part 5 for the scope decision).
type Control struct {
	log *logrus.Entry

	raw     *program.Program
	ground  *program.Program
	mapping *atomMapping
	g       inter.S

	testDepth int
}

// New returns a Control ready to accept program text via AddProgram.
func New(log *logrus.Entry) *Control {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Control{log: log, raw: &program.Program{}}
}

// AddProgram parses text (attributed to file, for error locations) and
// appends its statements to the program Control will ground.
func (c *Control) AddProgram(text, file string) error {
	p, err := program.Parse(text, file)
	if err != nil {
		return err
	}
	c.raw.Statements = append(c.raw.Statements, p.Statements...)
	c.ground = nil
	return nil
}

// AddParsedProgram appends an already-parsed program, e.g. the output of
// a rewrite transformer.
func (c *Control) AddParsedProgram(p *program.Program) {
	c.raw.Statements = append(c.raw.Statements, p.Statements...)
	c.ground = nil
}

// IsGrounded reports whether Ground has succeeded since the last
// AddProgram/AddParsedProgram call.
func (c *Control) IsGrounded() bool { return c.ground != nil }

// Ground performs variable instantiation and compiles the resulting
// ground program to a SAT circuit. It is idempotent: calling it again
// after adding more program text regrounds from scratch.
func (c *Control) Ground() error {
	grounded, err := groundProgram(c.raw)
	if err != nil {
		return err
	}
	mapping, err := compile(grounded)
	if err != nil {
		return err
	}
	c.ground = grounded
	c.mapping = mapping
	c.g = gini.New()
	c.mapping.addTo(c.g)
	return nil
}

func (c *Control) requireGrounded() error {
	if !c.IsGrounded() {
		return ErrNotGrounded
	}
	return nil
}

// SymbolicAtoms returns every ground atom Control knows about, in the
// stable order they were first registered during grounding.
func (c *Control) SymbolicAtoms() ([]symbol.Symbol, error) {
	if err := c.requireGrounded(); err != nil {
		return nil, err
	}
	out := make([]symbol.Symbol, len(c.mapping.order))
	copy(out, c.mapping.order)
	return out, nil
}

// HasAtom reports whether a is a known ground atom.
func (c *Control) HasAtom(a symbol.Symbol) bool {
	if c.mapping == nil {
		return false
	}
	_, ok := c.mapping.lits[a.Key()]
	return ok
}

// CheckAssumptions asks whether the program's hard rules and constraints
// are satisfiable together with assumptions all held true. On success it
// returns the full model as the set of true ground atoms. On failure it
// returns NotSatisfiable, an unsat core drawn from assumptions (read back
// via g.Why, mirroring litMapping.Conflicts).
func (c *Control) CheckAssumptions(assumptions []symbol.Symbol) ([]symbol.Symbol, error) {
	if err := c.requireGrounded(); err != nil {
		return nil, err
	}

	assumeLits := make([]z.Lit, 0, len(assumptions))
	for _, a := range assumptions {
		assumeLits = append(assumeLits, c.mapping.litOf(a))
	}

	c.g.Assume(assumeLits...)
	c.mapping.assumeHard(c.g)

	outcome := c.g.Solve()
	switch outcome {
	case satisfiable:
		return c.model(), nil
	case unsatisfiable:
		core := c.coreOf(assumptions)
		return nil, NotSatisfiable(core)
	default:
		return nil, &Timeout{Op: "CheckAssumptions"}
	}
}

// Timeout is returned by CheckAssumptions/Solve if gini reports an
// undetermined outcome (spec §7: recovered, not fatal).
type Timeout struct{ Op string }

func (e *Timeout) Error() string { return e.Op + ": solver returned an undetermined outcome" }

func (c *Control) model() []symbol.Symbol {
	var out []symbol.Symbol
	for _, a := range c.mapping.order {
		l := c.mapping.litOf(a)
		if c.g.Value(l) {
			out = append(out, a)
		}
	}
	return out
}

// coreOf reads back g.Why(nil) and intersects it with assumptions,
// exactly as litMapping.Conflicts intersects Why's output with the
// constraints map.
func (c *Control) coreOf(assumptions []symbol.Symbol) []symbol.Symbol {
	assumeSet := make(map[string]bool, len(assumptions))
	byLit := make(map[z.Lit]symbol.Symbol, len(assumptions))
	for _, a := range assumptions {
		assumeSet[a.Key()] = true
		byLit[c.mapping.litOf(a)] = a
	}
	whys := c.g.Why(nil)
	var core []symbol.Symbol
	for _, why := range whys {
		if a, ok := byLit[why]; ok {
			core = append(core, a)
			continue
		}
		if a, ok := c.mapping.atomOf(why); ok && assumeSet[a.Key()] {
			core = append(core, a)
		}
	}
	return core
}

// Entailment is one atom forced by unit propagation after a TestAtom
// call, with the polarity it was forced to.
type Entailment struct {
	Atom     symbol.Symbol
	Positive bool
}

// TestAtom drives a single decision under gini's Testable interface: it
// assumes atom true and returns the batch of atoms that became entailed
// by unit propagation, plus the outcome (1 sat, -1 unsat, 0 unknown).
// This is the primitive the Solver-Decision Observer is built on, since
// gini exposes no clingo-style propagator/decision-trail hook.
func (c *Control) TestAtom(atom symbol.Symbol) (entailed []Entailment, outcome int, err error) {
	if err := c.requireGrounded(); err != nil {
		return nil, 0, err
	}
	if c.testDepth == 0 {
		c.mapping.assumeHard(c.g)
	}
	l := c.mapping.litOf(atom)
	c.g.Assume(l)
	outcome, lits := c.g.Test(nil)
	c.testDepth++
	for _, m := range lits {
		if a, positive, ok := c.mapping.signedAtomOf(m); ok {
			entailed = append(entailed, Entailment{Atom: a, Positive: positive})
		}
	}
	return entailed, outcome, nil
}

// UntestAtom backtracks the most recent TestAtom call.
func (c *Control) UntestAtom() int {
	if c.testDepth == 0 {
		return 0
	}
	c.testDepth--
	return c.g.Untest()
}

// Minimize searches, by ascending cardinality, for a model minimising
// the number of candidates that are true, the way
// litMapping.CardinalityConstrainer + a "for w := 0; w <= cs.N(); w++"
// loop trying cs.Leq(w) does. It returns the
// smallest-cardinality satisfying subset of candidates, or nil and a
// NotSatisfiable error if the base assumptions are not satisfiable at all.
func (c *Control) Minimize(base []symbol.Symbol, candidates []symbol.Symbol) ([]symbol.Symbol, error) {
	if err := c.requireGrounded(); err != nil {
		return nil, err
	}

	baseLits := make([]z.Lit, 0, len(base))
	for _, a := range base {
		baseLits = append(baseLits, c.mapping.litOf(a))
	}
	candLits := make([]z.Lit, len(candidates))
	for i, a := range candidates {
		candLits[i] = c.mapping.litOf(a)
	}

	c.g.Assume(baseLits...)
	c.mapping.assumeHard(c.g)
	if c.g.Solve() != satisfiable {
		return nil, NotSatisfiable(c.coreOf(base))
	}

	cs := c.mapping.c.CardSort(candLits)
	clen := c.mapping.c.Len()
	marks := make([]int8, clen, c.mapping.c.Len())
	for i := range marks {
		marks[i] = 1
	}
	for w := 0; w <= cs.N(); w++ {
		marks, _ = c.mapping.c.CnfSince(c.g, marks, cs.Leq(w))
	}

	for w := 0; w <= cs.N(); w++ {
		c.g.Assume(baseLits...)
		c.mapping.assumeHard(c.g)
		c.g.Assume(cs.Leq(w))
		if c.g.Solve() == satisfiable {
			var chosen []symbol.Symbol
			for i, a := range candidates {
				if c.g.Value(candLits[i]) {
					chosen = append(chosen, a)
				}
			}
			return chosen, nil
		}
	}
	return nil, &Timeout{Op: "Minimize"}
}
