package symbol

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroundBasic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"p", "p"},
		{"p(1,2)", "p(1,2)"},
		{`p("a b")`, `p("a b")`},
		{"p(-1)", "p(-1)"},
		{"-p(1)", "-p(1)"},
		{"#sup", "#sup"},
		{"#inf", "#inf"},
		{"(1,2)", "(1,2)"},
		{"p(q(1))", "p(q(1))"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseGround(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got.String())
		})
	}
}

func TestParseGroundRejectsVariables(t *testing.T) {
	_, err := ParseGround("p(X)")
	assert.Error(t, err)

	_, err = ParseGround("p(_)")
	assert.Error(t, err)
}

func TestParseGroundSyntaxErrors(t *testing.T) {
	cases := []string{"p(", "p(1", `p("a`, "p(1,)", "..."}
	for _, c := range cases {
		_, err := ParseGround(c)
		assert.Errorf(t, err, "expected syntax error for %q", c)
		var se *SyntaxError
		assert.ErrorAs(t, err, &se)
	}
}

func TestParsePatternVariablesAndRange(t *testing.T) {
	term, err := ParsePattern("p(X,_,1..3)")
	require.NoError(t, err)
	assert.Equal(t, KindFunction, term.Kind)
	assert.Equal(t, "p", term.Name)
	require.Len(t, term.Args, 3)
	assert.Equal(t, KindVariable, term.Args[0].Kind)
	assert.Equal(t, KindAnonymous, term.Args[1].Kind)
	assert.Equal(t, KindRange, term.Args[2].Kind)
}

func TestIsGround(t *testing.T) {
	g, err := ParseGround("p(1,2)")
	require.NoError(t, err)
	assert.True(t, g.IsGround())

	p, err := ParsePattern("p(X)")
	require.NoError(t, err)
	assert.False(t, p.IsGround())
}

func TestEqual(t *testing.T) {
	a, _ := ParseGround("p(1,2)")
	b, _ := ParseGround("p(1,2)")
	c, _ := ParseGround("p(1,3)")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestMatchSignature(t *testing.T) {
	a, _ := ParseGround("p(1,2)")
	assert.True(t, a.MatchSignature("p", 2))
	assert.False(t, a.MatchSignature("p", 1))
	assert.False(t, a.MatchSignature("q", 2))
}

func TestUnpoolExpandsSingleRange(t *testing.T) {
	term, err := ParseGround("a(1..5)")
	require.NoError(t, err)

	instances := Unpool(term)
	require.Len(t, instances, 5)
	for i, inst := range instances {
		assert.True(t, inst.IsGround())
		assert.Equal(t, fmt.Sprintf("a(%d)", i+1), inst.String())
	}
}

func TestUnpoolExpandsMultipleRangesAsCartesianProduct(t *testing.T) {
	term, err := ParseGround("p(1..2,1..2)")
	require.NoError(t, err)

	instances := Unpool(term)
	require.Len(t, instances, 4)
	seen := map[string]bool{}
	for _, inst := range instances {
		seen[inst.String()] = true
	}
	assert.True(t, seen["p(1,1)"])
	assert.True(t, seen["p(1,2)"])
	assert.True(t, seen["p(2,1)"])
	assert.True(t, seen["p(2,2)"])
}

func TestUnpoolNoRangeReturnsSingleton(t *testing.T) {
	term, err := ParseGround("p(1,2)")
	require.NoError(t, err)

	instances := Unpool(term)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].Equal(term))
}
