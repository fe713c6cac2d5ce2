package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potassco/asperion/pkg/asp/program"
)

func TestConstraintTransformerTagsAndRecordsLocation(t *testing.T) {
	p := mustParse(t, ":- a.\n:- b, not c.\n")
	tr := NewConstraintTransformer("fired", true)
	out := tr.Transform(p)

	require.Len(t, out.Statements, 2)
	assert.Equal(t, program.KindRule, out.Statements[0].Kind)
	assert.Equal(t, "fired(1)", out.Statements[0].Head.String())
	assert.Equal(t, "fired(2)", out.Statements[1].Head.String())

	loc, ok := tr.LocationOf(1)
	require.True(t, ok)
	assert.Equal(t, 1, loc.BeginLine)
}

func TestRuleIDTransformerAddsShadowRules(t *testing.T) {
	p := mustParse(t, "a.\nb :- a.\n")
	tr := NewRuleIDTransformer("rule_tag")
	out := tr.Transform(p)

	require.Len(t, out.Statements, 3)
	assert.Equal(t, "rule_tag(1)", out.Statements[2].Head.String())
	assert.Equal(t, []int{1}, tr.Tags())
}

func TestOptimizationRemoverDropsMinimize(t *testing.T) {
	p := mustParse(t, "a.\n#minimize {1,X : b(X)}.\nb(1).\n")
	out := OptimizationRemover{}.Transform(p)
	for _, s := range out.Statements {
		assert.NotEqual(t, program.KindMinimize, s.Kind)
	}
	assert.Len(t, out.Statements, 2)
}

func TestFactTransformerRemovesMatchingFacts(t *testing.T) {
	p := mustParse(t, "a.\nb(1).\nc :- a.\n")
	tr := NewFactTransformer([]Signature{{Name: "a", Arity: 0}})
	out := tr.Transform(p)
	require.Len(t, out.Statements, 2)
	assert.Equal(t, "b(1)", out.Statements[0].Head.String())
}

func TestFactTransformerNilRemovesAllFacts(t *testing.T) {
	p := mustParse(t, "a.\nb(1).\nc :- a.\n")
	tr := NewFactTransformer(nil)
	out := tr.Transform(p)
	require.Len(t, out.Statements, 1)
	assert.Equal(t, program.KindRule, out.Statements[0].Kind)
}
