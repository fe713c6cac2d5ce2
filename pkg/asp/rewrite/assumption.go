// Package rewrite implements the program-to-program transformers of
// spec §4.2-§4.4: the Assumption Preprocessor, Constraint Tagger, and
// the three ancillary rewriters (RuleIDTransformer, OptimizationRemover,
// FactTransformer). Each is the Go stand-in for one of
// original_source/src/clingexplaid/transformers/*.py's clingo.ast
// visitors, operating on pkg/asp/program's AST instead.
package rewrite

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/potassco/asperion/pkg/asp/asperr"
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// ErrUnprocessed is returned by Assumptions when Transform has not yet
// been called (transformer_assumption.py's UntransformedException).
var ErrUnprocessed = &asperr.Unprocessed{Component: "rewrite.AssumptionTransformer", Reason: "Transform has not been called"}

// Signature identifies a predicate by name and arity, the unit every
// transformer's filter set is expressed over.
type Signature struct {
	Name  string
	Arity int
}

func (s Signature) String() string { return fmt.Sprintf("%s/%d", s.Name, s.Arity) }

// AssumptionTransformer rewrites every fact matching Signatures (or
// every fact, if Signatures is nil) into a choice fact, and records the
// original fact atoms as the resulting assumption set. An explicitly
// empty (non-nil) Signatures is a deliberate "convert nothing" request
// rather than "convert everything" — Transform logs a warning and
// leaves every fact untouched in that case, matching the CLI's
// documented behavior for an explicit, empty --assumption-signature list.
type AssumptionTransformer struct {
	Signatures  []Signature
	transformed bool
	facts       []program.Stmt
}

// NewAssumptionTransformer constructs a transformer over signatures.
// Pass nil to convert every fact; pass a non-nil empty slice to convert
// none while still marking the program as processed.
func NewAssumptionTransformer(signatures []Signature) *AssumptionTransformer {
	return &AssumptionTransformer{Signatures: signatures}
}

// Transform returns a new Program with matching facts rewritten to
// choice facts, leaving every other statement untouched. Calling
// Transform again on a different program resets the recorded fact set.
func (t *AssumptionTransformer) Transform(p *program.Program) *program.Program {
	out := &program.Program{Statements: make([]program.Stmt, 0, len(p.Statements))}
	t.facts = nil

	if t.Signatures != nil && len(t.Signatures) == 0 {
		logrus.WithField("component", "rewrite.AssumptionTransformer").
			Warn("explicit empty assumption-signature filter: converting no facts")
		t.transformed = true
		out.Statements = append(out.Statements, p.Statements...)
		return out
	}

	for _, s := range p.Statements {
		if s.Kind != program.KindFact {
			out.Statements = append(out.Statements, s)
			continue
		}

		instances := symbol.Unpool(*s.Head)
		sort.Slice(instances, func(i, j int) bool { return instances[i].String() < instances[j].String() })

		for _, inst := range instances {
			inst := inst
			if !t.matches(inst) {
				out.Statements = append(out.Statements, program.Stmt{Kind: program.KindFact, Loc: s.Loc, Head: &inst})
				continue
			}
			t.facts = append(t.facts, program.Stmt{Kind: program.KindFact, Loc: s.Loc, Head: &inst})
			out.Statements = append(out.Statements, program.Stmt{
				Kind: program.KindChoiceFact,
				Loc:  s.Loc,
				Head: &inst,
			})
		}
	}

	t.transformed = true
	return out
}

// matches reports whether head should be converted: every fact
// qualifies when Signatures is empty, otherwise only facts matching one
// of the declared (name, arity) pairs.
func (t *AssumptionTransformer) matches(head symbol.Term) bool {
	if len(t.Signatures) == 0 {
		return true
	}
	for _, sig := range t.Signatures {
		if head.MatchSignature(sig.Name, sig.Arity) {
			return true
		}
	}
	return false
}

// Assumptions returns the fact statements that Transform converted to
// choice facts. It must be called after Transform (ErrUnprocessed
// otherwise), mirroring get_assumptions's UntransformedException guard.
func (t *AssumptionTransformer) Assumptions() ([]program.Stmt, error) {
	if !t.transformed {
		return nil, errors.WithStack(ErrUnprocessed)
	}
	out := make([]program.Stmt, len(t.facts))
	copy(out, t.facts)
	return out, nil
}
