package rewrite

import (
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// ConstraintTransformer rewrites every integrity constraint ":- body."
// into a rule "tagHead(id) :- body." so a solve over the transformed
// program can read back which constraints would have fired, instead of
// simply failing (spec §4.3's Constraint Tagger).
type ConstraintTransformer struct {
	HeadSymbol string
	IncludeID  bool

	nextID         int
	locationLookup map[int]program.Location
	textLookup     map[int]string
}

// NewConstraintTransformer returns a transformer tagging constraint
// heads with headSymbol, numbering them from 1 if includeID is set.
func NewConstraintTransformer(headSymbol string, includeID bool) *ConstraintTransformer {
	return &ConstraintTransformer{
		HeadSymbol:     headSymbol,
		IncludeID:      includeID,
		nextID:         1,
		locationLookup: map[int]program.Location{},
		textLookup:     map[int]string{},
	}
}

// Transform rewrites every KindConstraint statement into a KindRule
// whose head is HeadSymbol (or HeadSymbol(id) when IncludeID is set),
// recording each assigned id's source Location.
func (t *ConstraintTransformer) Transform(p *program.Program) *program.Program {
	out := &program.Program{Statements: make([]program.Stmt, 0, len(p.Statements))}
	for _, s := range p.Statements {
		if s.Kind != program.KindConstraint {
			out.Statements = append(out.Statements, s)
			continue
		}

		id := t.nextID
		t.nextID++
		t.locationLookup[id] = s.Loc
		t.textLookup[id] = s.String()

		var head symbol.Term
		if t.IncludeID {
			head = symbol.Function(t.HeadSymbol, symbol.Number(id))
		} else {
			head = symbol.Function(t.HeadSymbol)
		}

		out.Statements = append(out.Statements, program.Stmt{
			Kind: program.KindRule,
			Loc:  s.Loc,
			Head: &head,
			Body: s.Body,
		})
	}
	return out
}

// LocationOf returns the source Location a tagged constraint id was
// parsed from, and whether id is known.
func (t *ConstraintTransformer) LocationOf(id int) (program.Location, bool) {
	loc, ok := t.locationLookup[id]
	return loc, ok
}

// TextOf returns the original ":- body." source text of a tagged
// constraint id, and whether id is known.
func (t *ConstraintTransformer) TextOf(id int) (string, bool) {
	text, ok := t.textLookup[id]
	return text, ok
}
