package rewrite

import (
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// FactTransformer strips every fact matching one of Signatures (or
// every fact, if Signatures is nil) from a program, grounded on
// original_source/.../transformer_fact.py. The Locator uses this to
// remove the facts sharing a signature with the fingerprint atoms before
// appending those atoms as plain facts, so a leftover original fact
// can't stand in for the fingerprint.
type FactTransformer struct {
	Signatures []Signature
}

// NewFactTransformer returns a transformer removing facts matching
// signatures (nil removes every fact).
func NewFactTransformer(signatures []Signature) *FactTransformer {
	return &FactTransformer{Signatures: signatures}
}

// Transform returns a copy of p with matching KindFact statements
// removed.
func (t *FactTransformer) Transform(p *program.Program) *program.Program {
	out := &program.Program{Statements: make([]program.Stmt, 0, len(p.Statements))}
	for _, s := range p.Statements {
		if s.Kind == program.KindFact && t.matches(*s.Head) {
			continue
		}
		out.Statements = append(out.Statements, s)
	}
	return out
}

func (t *FactTransformer) matches(head symbol.Term) bool {
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
