package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potassco/asperion/pkg/asp/symbol"
)

func TestCompileIsMemoized(t *testing.T) {
	m1, err := Compile("p(X,_)")
	require.NoError(t, err)
	m2, err := Compile("p(X,_)")
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("p(")
	assert.Error(t, err)
}

func TestMatchBindsVariablesConsistently(t *testing.T) {
	m, err := Compile("edge(X,X)")
	require.NoError(t, err)

	sym, err := symbol.ParseGround("edge(1,1)")
	require.NoError(t, err)
	assignment, ok := m.Match(sym)
	require.True(t, ok)
	assert.Equal(t, "1", assignment["X"].String())

	sym2, err := symbol.ParseGround("edge(1,2)")
	require.NoError(t, err)
	_, ok = m.Match(sym2)
	assert.False(t, ok)
}

func TestMatchAnonymousNeverBinds(t *testing.T) {
	m, err := Compile("p(_,_)")
	require.NoError(t, err)
	sym, _ := symbol.ParseGround("p(1,2)")
	assignment, ok := m.Match(sym)
	require.True(t, ok)
	assert.Empty(t, assignment)
}

func TestMatchArityAndNameMismatch(t *testing.T) {
	m, err := Compile("p(X)")
	require.NoError(t, err)

	wrongArity, _ := symbol.ParseGround("p(1,2)")
	_, ok := m.Match(wrongArity)
	assert.False(t, ok)

	wrongName, _ := symbol.ParseGround("q(1)")
	_, ok = m.Match(wrongName)
	assert.False(t, ok)
}

func TestBySignature(t *testing.T) {
	m := BySignature("p", 2)
	sym, _ := symbol.ParseGround("p(1,2)")
	_, ok := m.Match(sym)
	assert.True(t, ok)

	other, _ := symbol.ParseGround("p(1)")
	_, ok = m.Match(other)
	assert.False(t, ok)
}
