package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potassco/asperion/pkg/asp/rewrite"
	"github.com/potassco/asperion/pkg/asp/solver"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

func mustAtom(t *testing.T, s string) symbol.Symbol {
	t.Helper()
	a, err := symbol.ParseGround(s)
	require.NoError(t, err)
	return a
}

func newGroundedControl(t *testing.T, text string) *solver.Control {
	t.Helper()
	c := solver.New(nil)
	require.NoError(t, c.AddProgram(text, "g.lp"))
	require.NoError(t, c.Ground())
	return c
}

func TestDecideReportsEntailedConsequence(t *testing.T) {
	c := newGroundedControl(t, `
{a}.
b :- a.
`)
	o := New(c, nil)

	ev, err := o.Decide(mustAtom(t, "a"))
	require.NoError(t, err)

	assert.True(t, ev.Satisfied)
	assert.Equal(t, 1, ev.Decision.Literal)
	assert.True(t, ev.Decision.Positive)
	require.NotNil(t, ev.Decision.Atom)
	assert.Equal(t, "a", ev.Decision.Atom.String())

	var sawB bool
	for _, e := range ev.Entailed {
		if e.Atom != nil && e.Atom.String() == "b" {
			sawB = true
			assert.True(t, e.Positive)
		}
	}
	assert.True(t, sawB, "expected b to be entailed by a")
}

func TestDecideReportsUnsatWhenForcedFalseAtomIsAssumedTrue(t *testing.T) {
	c := newGroundedControl(t, `
{a}.
:- a.
`)
	o := New(c, nil)

	ev, err := o.Decide(mustAtom(t, "a"))
	require.NoError(t, err)
	assert.False(t, ev.Satisfied)
}

func TestUndoWithEmptyTrailReturnsFalse(t *testing.T) {
	c := newGroundedControl(t, `{a}.`)
	o := New(c, nil)
	_, ok := o.Undo()
	assert.False(t, ok)
}

func TestUndoPopsMostRecentDecision(t *testing.T) {
	c := newGroundedControl(t, `{a}. {b}.`)
	o := New(c, nil)

	_, err := o.Decide(mustAtom(t, "a"))
	require.NoError(t, err)
	_, err = o.Decide(mustAtom(t, "b"))
	require.NoError(t, err)

	undone, ok := o.Undo()
	require.True(t, ok)
	require.NotNil(t, undone.Atom)
	assert.Equal(t, "b", undone.Atom.String())

	assert.Len(t, o.trail, 1)
}

func TestStreamStopsAtFirstUnsatDecision(t *testing.T) {
	c := newGroundedControl(t, `
{a}. {b}.
:- a.
`)
	o := New(c, nil)

	events, err := o.Stream([]symbol.Symbol{mustAtom(t, "a"), mustAtom(t, "b")}, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Satisfied)
}

func TestStreamFiltersBySignature(t *testing.T) {
	c := newGroundedControl(t, `
{a}.
tracked(1) :- a.
untracked :- a.
`)
	sigs := []rewrite.Signature{{Name: "tracked", Arity: 1}}
	o := New(c, sigs)

	events, err := o.Stream([]symbol.Symbol{mustAtom(t, "a")}, false)
	require.NoError(t, err)
	require.Len(t, events, 1)

	var sawTracked bool
	for _, e := range events[0].Entailed {
		if e.Atom != nil && e.Atom.String() == "tracked(1)" {
			sawTracked = true
		}
	}
	assert.True(t, sawTracked, "an entailment matching a tracked signature should pull in the whole event")
}

func TestStreamOmitsEventsMatchingNoSignature(t *testing.T) {
	c := newGroundedControl(t, `
{a}.
untracked :- a.
`)
	sigs := []rewrite.Signature{{Name: "tracked", Arity: 1}}
	o := New(c, sigs)

	events, err := o.Stream([]symbol.Symbol{mustAtom(t, "a")}, false)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecisionStringFormatsSignAndAtom(t *testing.T) {
	a := mustAtom(t, "p(1)")
	d := Decision{Literal: 3, Positive: true, Atom: &a}
	assert.Equal(t, "[+] p(1) [3]", d.String())

	d2 := Decision{Literal: 4, Positive: false, Atom: &a}
	assert.Equal(t, "[-] p(1) [4]", d2.String())

	d3 := Decision{Literal: 5, Positive: true, Atom: nil}
	assert.Equal(t, "[+] INTERNAL [5]", d3.String())
}

func TestMatchesAnyEmptySignaturesMatchesEverything(t *testing.T) {
	a := mustAtom(t, "p(1)")
	d := Decision{Atom: &a}
	assert.True(t, d.MatchesAny(nil, false))
}

func TestMatchesAnyRequiresSignatureMatch(t *testing.T) {
	a := mustAtom(t, "p(1)")
	d := Decision{Atom: &a}
	sigs := []rewrite.Signature{{Name: "q", Arity: 1}}
	assert.False(t, d.MatchesAny(sigs, false))

	sigs2 := []rewrite.Signature{{Name: "p", Arity: 1}}
	assert.True(t, d.MatchesAny(sigs2, false))
}

func TestMatchesAnyInternalGatedByShowInternal(t *testing.T) {
	d := Decision{Atom: nil}
	assert.False(t, d.MatchesAny(nil, false))
	assert.True(t, d.MatchesAny(nil, true))
}

func TestParseSignaturesParsesNameAndArity(t *testing.T) {
	sigs, err := ParseSignatures([]string{"p/2", "q/0"})
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, rewrite.Signature{Name: "p", Arity: 2}, sigs[0])
	assert.Equal(t, rewrite.Signature{Name: "q", Arity: 0}, sigs[1])
}

func TestParseSignaturesRejectsMalformed(t *testing.T) {
	_, err := ParseSignatures([]string{"noarity"})
	assert.Error(t, err)

	_, err = ParseSignatures([]string{"p/notanumber"})
	assert.Error(t, err)
}
