package rewrite

import "github.com/potassco/asperion/pkg/asp/program"

// OptimizationRemover strips #minimize/#maximize statements from a
// program, grounded on
// original_source/.../transformer_optimization_remover.py: the MUS
// engine and locator both need a plain satisfiability question, and an
// optimization statement changes which model the solver prefers without
// changing satisfiability, so it is simply dropped rather than honored.
type OptimizationRemover struct{}

// Transform returns a copy of p with every KindMinimize statement
// removed.
func (OptimizationRemover) Transform(p *program.Program) *program.Program {
	out := &program.Program{Statements: make([]program.Stmt, 0, len(p.Statements))}
	for _, s := range p.Statements {
		if s.Kind == program.KindMinimize {
			continue
		}
		out.Statements = append(out.Statements, s)
	}
	return out
}
