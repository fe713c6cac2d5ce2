package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potassco/asperion/pkg/asp/program"
)

func mustParse(t *testing.T, src string) *program.Program {
	t.Helper()
	p, err := program.Parse(src, "t.lp")
	require.NoError(t, err)
	return p
}

func TestAssumptionTransformerConvertsAllFactsByDefault(t *testing.T) {
	p := mustParse(t, "a.\nb(1).\nc(X) :- a.\n")
	tr := NewAssumptionTransformer(nil)
	out := tr.Transform(p)

	assert.Equal(t, program.KindChoiceFact, out.Statements[0].Kind)
	assert.Equal(t, program.KindChoiceFact, out.Statements[1].Kind)
	assert.Equal(t, program.KindRule, out.Statements[2].Kind)

	facts, err := tr.Assumptions()
	require.NoError(t, err)
	assert.Len(t, facts, 2)
}

func TestAssumptionTransformerFiltersBySignature(t *testing.T) {
	p := mustParse(t, "a.\nb(1).\n")
	tr := NewAssumptionTransformer([]Signature{{Name: "b", Arity: 1}})
	out := tr.Transform(p)

	assert.Equal(t, program.KindFact, out.Statements[0].Kind)
	assert.Equal(t, program.KindChoiceFact, out.Statements[1].Kind)

	facts, err := tr.Assumptions()
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "b(1)", facts[0].Head.String())
}

func TestAssumptionTransformerExplicitEmptyConvertsNothing(t *testing.T) {
	p := mustParse(t, "a.\nb(1).\n")
	tr := NewAssumptionTransformer([]Signature{})
	out := tr.Transform(p)

	assert.Equal(t, program.KindFact, out.Statements[0].Kind)
	assert.Equal(t, program.KindFact, out.Statements[1].Kind)

	facts, err := tr.Assumptions()
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestAssumptionsBeforeTransformIsError(t *testing.T) {
	tr := NewAssumptionTransformer(nil)
	_, err := tr.Assumptions()
	assert.ErrorIs(t, err, ErrUnprocessed)
}
