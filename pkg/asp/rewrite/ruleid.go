package rewrite

import (
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// RuleIDTransformer tags every (non-constraint) rule with a unique id,
// adding one extra rule per tagged statement that derives rule_tag(i)
// under the same body — so a model records exactly which rules fired
// without changing which models exist (spec §4.4, grounded on
// original_source/.../transformer_rule_id.py's per-statement id
// assignment, adapted here as a shadow derivation rather than an
// injected body guard so firing observation never perturbs
// satisfiability). Constraints are left untagged here: a fired
// constraint makes the program unsatisfiable, so its firing is never
// witnessed by a model — spec §4.7's Locator tags constraints itself,
// via ConstraintTransformer, by first turning them into observable rules.
type RuleIDTransformer struct {
	TagSymbol string
	nextID    int
	tags      []int
}

// NewRuleIDTransformer returns a transformer whose tag atoms use
// tagSymbol (e.g. "rule_tag").
func NewRuleIDTransformer(tagSymbol string) *RuleIDTransformer {
	return &RuleIDTransformer{TagSymbol: tagSymbol, nextID: 1}
}

// Transform tags every KindRule statement, appending
// a shadow rule per tag that derives the tag atom under the original
// body, leaving the original statement's semantics untouched.
func (t *RuleIDTransformer) Transform(p *program.Program) *program.Program {
	out := &program.Program{Statements: make([]program.Stmt, 0, len(p.Statements)*2)}

	for _, s := range p.Statements {
		out.Statements = append(out.Statements, s)

		switch s.Kind {
		case program.KindRule:
			id := t.nextID
			t.nextID++
			t.tags = append(t.tags, id)

			tagAtom := symbol.Function(t.TagSymbol, symbol.Number(id))
			out.Statements = append(out.Statements, program.Stmt{
				Kind: program.KindRule,
				Loc:  s.Loc,
				Head: &tagAtom,
				Body: s.Body,
			})
		}
	}

	return out
}

// Tags returns every tag id assigned so far, across all Transform calls
// on t, in assignment order.
func (t *RuleIDTransformer) Tags() []int {
	out := make([]int, len(t.tags))
	copy(out, t.tags)
	return out
}
