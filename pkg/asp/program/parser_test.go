package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFactsRulesConstraints(t *testing.T) {
	src := `
a.
b(1,2).
c(X) :- a, b(X,_).
:- not a.
{d(1)} :- a.
#const n = 3.
#minimize {1,X : b(X,_)}.
% a comment
`
	p, err := Parse(src, "test.lp")
	require.NoError(t, err)
	require.Len(t, p.Statements, 7)

	assert.Equal(t, KindFact, p.Statements[0].Kind)
	assert.Equal(t, "a", p.Statements[0].Head.String())

	assert.Equal(t, KindFact, p.Statements[1].Kind)
	assert.Equal(t, "b(1,2)", p.Statements[1].Head.String())

	assert.Equal(t, KindRule, p.Statements[2].Kind)
	assert.Equal(t, "c(X)", p.Statements[2].Head.String())
	require.Len(t, p.Statements[2].Body, 2)

	assert.Equal(t, KindConstraint, p.Statements[3].Kind)
	require.Len(t, p.Statements[3].Body, 1)
	assert.True(t, p.Statements[3].Body[0].Naf)

	assert.Equal(t, KindChoiceRule, p.Statements[4].Kind)

	assert.Equal(t, KindConstDef, p.Statements[5].Kind)
	assert.Equal(t, "n", p.Statements[5].ConstName)
	assert.Equal(t, "3", p.Statements[5].ConstValue.String())

	assert.Equal(t, KindMinimize, p.Statements[6].Kind)
}

func TestParseTracksLineNumbers(t *testing.T) {
	src := "a.\nb.\n\nc.\n"
	p, err := Parse(src, "f.lp")
	require.NoError(t, err)
	require.Len(t, p.Statements, 3)
	assert.Equal(t, 1, p.Statements[0].Loc.BeginLine)
	assert.Equal(t, 2, p.Statements[1].Loc.BeginLine)
	assert.Equal(t, 4, p.Statements[2].Loc.BeginLine)
}

func TestParseStringDoesNotBreakStatementSplitting(t *testing.T) {
	src := `msg("end of line. still string").` + "\n"
	p, err := Parse(src, "f.lp")
	require.NoError(t, err)
	require.Len(t, p.Statements, 1)
	assert.Equal(t, KindFact, p.Statements[0].Kind)
}

func TestParseMalformedConstDef(t *testing.T) {
	_, err := Parse("#const broken.\n", "f.lp")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestProgramStringRoundTrips(t *testing.T) {
	src := "a.\nb(1) :- a.\n"
	p, err := Parse(src, "f.lp")
	require.NoError(t, err)
	assert.Equal(t, "a.\nb(1) :- a.", p.String())
}

func TestCloneIsIndependent(t *testing.T) {
	p, err := Parse("a.\nb.\n", "f.lp")
	require.NoError(t, err)
	clone := p.Clone()
	clone.Statements = append(clone.Statements, Stmt{Kind: KindFact})
	assert.Len(t, p.Statements, 2)
	assert.Len(t, clone.Statements, 3)
}
