// Package locator implements the Unsat-Constraint Locator of spec §4.7:
// it tags every integrity constraint with a numbered atom, asks the
// solver to minimise how many of those tags must fire, and reports the
// firing constraints' source text and location. Grounded on
// original_source/src/clingexplaid/unsat_constraints/unsat_constraint_computer.py.
package locator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/potassco/asperion/pkg/asp/asperr"
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/rewrite"
	"github.com/potassco/asperion/pkg/asp/solver"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// tagSymbol is the predicate name the Constraint Tagger uses, mirroring
// the Python reference's UNSAT_CONSTRAINT_SIGNATURE constant.
const tagSymbol = "unsat_constraint"

// ErrUninitialised is returned by Locate before a program has been
// parsed via ParseProgram/ParseFiles; LocationOf/TextOf report ok=false
// in that state instead.
var ErrUninitialised error = &asperr.LocatorUninitialised{}

// Constraint is a single tagged integrity constraint reported by Locate:
// the original constraint rendered as ":- body.", and the Location it was parsed
// from (synthetic, with no file, unless ParseFiles was used).
type Constraint struct {
	ID       int
	Text     string
	Location program.Location
}

// String renders c the way the CLI's unsat-constraints output annotates
// a located constraint (spec §6): the constraint text followed by its
// file/line annotation.
func (c Constraint) String() string {
	var b strings.Builder
	b.WriteString(c.Text)
	b.WriteString(" [")
	if c.Location.File != "" {
		b.WriteString(c.Location.File)
		b.WriteString(", ")
	}
	if c.Location.EndLine > c.Location.BeginLine {
		b.WriteString("lines ")
		b.WriteString(strconv.Itoa(c.Location.BeginLine))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(c.Location.EndLine))
	} else {
		b.WriteString("line ")
		b.WriteString(strconv.Itoa(c.Location.BeginLine))
	}
	b.WriteByte(']')
	return b.String()
}

// Locator is the Go stand-in for UnsatConstraintComputer.
type Locator struct {
	log *logrus.Entry

	transformer *rewrite.ConstraintTransformer
	base        *program.Program
}

// New returns a Locator ready to accept a program via ParseProgram or
// ParseFiles.
func New(log *logrus.Entry) *Locator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Locator{log: log}
}

// ParseProgram tags every integrity constraint in text and strips any
// optimisation statements, preparing Locate to be called (spec §4.7
// steps 1-2).
func (l *Locator) ParseProgram(text, file string) error {
	p, err := program.Parse(text, file)
	if err != nil {
		return err
	}
	return l.apply(p)
}

// ParseFiles is ParseProgram over a set of source files, preserving
// per-file locations the way program.ParseFiles does.
func (l *Locator) ParseFiles(paths []string) error {
	p, err := program.ParseFiles(paths)
	if err != nil {
		return err
	}
	return l.apply(p)
}

func (l *Locator) apply(p *program.Program) error {
	ct := rewrite.NewConstraintTransformer(tagSymbol, true)
	tagged := ct.Transform(p)
	l.transformer = ct
	l.base = rewrite.OptimizationRemover{}.Transform(tagged)
	return nil
}

// LocationOf returns the source Location of a tagged constraint id.
func (l *Locator) LocationOf(id int) (program.Location, bool) {
	if l.transformer == nil {
		return program.Location{}, false
	}
	return l.transformer.LocationOf(id)
}

// TextOf returns the original ":- body." text of a tagged constraint id.
func (l *Locator) TextOf(id int) (string, bool) {
	if l.transformer == nil {
		return "", false
	}
	return l.transformer.TextOf(id)
}

// Locate grounds and solves the tagged program, optionally substituting
// fingerprint for the matching facts already in the program (spec §4.7
// step 3), and returns the minimum-cardinality set of constraints whose
// firing explains unsatisfiability, ordered by id. An empty, nil-error
// result means the (fingerprinted) program is satisfiable outright: no
// constraint need fire.
func (l *Locator) Locate(fingerprint []symbol.Symbol) ([]Constraint, error) {
	if l.base == nil {
		return nil, ErrUninitialised
	}

	p := l.base
	if len(fingerprint) > 0 {
		ft := rewrite.NewFactTransformer(signaturesOf(fingerprint))
		p = ft.Transform(p)
		p = appendFacts(p, fingerprint)
	}

	control := solver.New(l.log)
	control.AddParsedProgram(p)
	if err := control.Ground(); err != nil {
		return nil, err
	}

	atoms, err := control.SymbolicAtoms()
	if err != nil {
		return nil, err
	}
	var candidates []symbol.Symbol
	for _, a := range atoms {
		if a.MatchSignature(tagSymbol, 1) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	chosen, err := control.Minimize(nil, candidates)
	if err != nil {
		return nil, err
	}

	results := make([]Constraint, 0, len(chosen))
	for _, a := range chosen {
		id := a.Args[0].Num
		loc, _ := l.transformer.LocationOf(id)
		text, _ := l.transformer.TextOf(id)
		results = append(results, Constraint{ID: id, Text: text, Location: loc})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func signaturesOf(atoms []symbol.Symbol) []rewrite.Signature {
	seen := map[rewrite.Signature]bool{}
	var out []rewrite.Signature
	for _, a := range atoms {
		sig := rewrite.Signature{Name: a.Name, Arity: a.Arity()}
		if !seen[sig] {
			seen[sig] = true
			out = append(out, sig)
		}
	}
	return out
}

func appendFacts(p *program.Program, atoms []symbol.Symbol) *program.Program {
	out := &program.Program{Statements: make([]program.Stmt, len(p.Statements), len(p.Statements)+len(atoms))}
	copy(out.Statements, p.Statements)
	for _, a := range atoms {
		head := a
		out.Statements = append(out.Statements, program.Stmt{Kind: program.KindFact, Head: &head})
	}
	return out
}

// ParseFingerprint parses a space-separated string of ground atoms (the
// form accepted by --assumption-signature-style fingerprint input) into
// Symbols, the way get_signatures_from_model_string's tokenizer did by
// counting parentheses, except using the real parser: splitting on
// whitespace and parsing each token as a ground term yields the same
// name/arity signatures without the original's paren-nesting heuristic.
func ParseFingerprint(s string) ([]symbol.Symbol, error) {
	fields := strings.Fields(s)
	out := make([]symbol.Symbol, 0, len(fields))
	for _, f := range fields {
		a, err := symbol.ParseGround(f)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
