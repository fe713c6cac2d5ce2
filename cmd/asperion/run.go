package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/potassco/asperion/pkg/asp/locator"
	"github.com/potassco/asperion/pkg/asp/mus"
	"github.com/potassco/asperion/pkg/asp/observer"
	"github.com/potassco/asperion/pkg/asp/program"
	"github.com/potassco/asperion/pkg/asp/rewrite"
	"github.com/potassco/asperion/pkg/asp/solver"
	"github.com/potassco/asperion/pkg/asp/symbol"
)

// runOptions is the flag set newRootCmd binds into, spec §6's documented
// CLI contract to the core.
type runOptions struct {
	mus                  bool
	unsatConstraints     bool
	showDecisions        bool
	assumptionSignatures []string
	decisionSignatures   []string
	constants            []string
	models               int
	explorer             string
	timeout              time.Duration
	files                []string
}

// run executes the requested modes in sequence (MUS, then the unsat
// constraints it feeds, then the decision stream), writing to out. It
// returns a non-nil error only for the invalid-argument/solver-error
// cases spec §6 reserves a non-zero exit code for; an UNSAT or empty
// result is reported through out, not an error.
func run(opts *runOptions, out io.Writer) error {
	if len(opts.files) == 0 {
		return errors.New("asperion: at least one program file is required")
	}
	if !opts.mus && !opts.unsatConstraints && !opts.showDecisions {
		return errors.New("asperion: one of --mus, --unsat-constraints, --show-decisions is required")
	}

	constDefs, err := parseConstants(opts.constants)
	if err != nil {
		return err
	}
	assumptionSigs, err := parseSignatures(opts.assumptionSignatures)
	if err != nil {
		return err
	}
	decisionSigs, err := observer.ParseSignatures(opts.decisionSignatures)
	if err != nil {
		return err
	}

	raw, err := program.ParseFiles(opts.files)
	if err != nil {
		return err
	}
	raw.Statements = append(constDefs, raw.Statements...)

	log := logrus.NewEntry(logrus.StandardLogger())

	var deadline time.Time
	if opts.timeout > 0 {
		deadline = time.Now().Add(opts.timeout)
	}

	var museses []mus.UnsatisfiableSubset
	if opts.mus {
		museses, err = runMUS(raw, assumptionSigs, opts.models, opts.explorer, deadline, log, out)
		if err != nil {
			return err
		}
	}

	if opts.unsatConstraints {
		if err := runUnsatConstraints(opts.files, museses, out); err != nil {
			return err
		}
	}

	if opts.showDecisions {
		if err := runDecisions(raw, decisionSigs, log, out); err != nil {
			return err
		}
	}

	return nil
}

// runMUS converts assumption-eligible facts to choices, grounds the
// result, and computes one MUS (models == 1) or enumerates up to models
// MUSes (0 means unbounded) via explorerName's Explorer ("powerset", the
// default, or "asp" for the ASP-oracle meta-program), printing each as a
// numbered space-separated atom list (spec §6 "MUS" output, §4.5-§4.6,
// §4.6.1-§4.6.3). deadline is the monotonic wall-clock cutoff threaded
// into Shrink/Enumerate (a zero Time disables it).
func runMUS(raw *program.Program, sigs []rewrite.Signature, models int, explorerName string, deadline time.Time, log *logrus.Entry, out io.Writer) ([]mus.UnsatisfiableSubset, error) {
	at := rewrite.NewAssumptionTransformer(sigs)
	transformed := at.Transform(raw)
	facts, err := at.Assumptions()
	if err != nil {
		return nil, err
	}

	assumptions := make([]symbol.Symbol, len(facts))
	for i, f := range facts {
		assumptions[i] = *f.Head
	}

	control := solver.New(log)
	control.AddParsedProgram(transformed)
	if err := control.Ground(); err != nil {
		return nil, err
	}

	engine := mus.New(control, assumptions, log)

	var results []mus.UnsatisfiableSubset
	if models == 1 {
		results = []mus.UnsatisfiableSubset{engine.Shrink(nil, deadline)}
	} else {
		explorer, err := newExplorer(explorerName, assumptions, log)
		if err != nil {
			return nil, err
		}
		results = engine.Enumerate(explorer, models, deadline)
	}

	for i, r := range results {
		fmt.Fprintf(out, "MUS %d: %s\n", i+1, strings.Join(r.Strings(), " "))
	}
	return results, nil
}

// newExplorer builds the Explorer named by name (spec §4.6.1's dynamic
// dispatch): "powerset" (default, also used for an empty name) or "asp".
func newExplorer(name string, assumptions []symbol.Symbol, log *logrus.Entry) (mus.Explorer, error) {
	switch name {
	case "", "powerset":
		return mus.NewPowersetExplorer(assumptions), nil
	case "asp":
		return mus.NewASPExplorer(assumptions, log)
	default:
		return nil, fmt.Errorf("unknown explorer %q: expected \"powerset\" or \"asp\"", name)
	}
}

// runUnsatConstraints locates the integrity constraints responsible for
// unsatisfiability, once over the bare program if no MUS was requested,
// or once per discovered MUS (using its atoms as the assumption
// fingerprint) when --mus triggered it (spec §6 combination note, §4.7).
// It reads files directly (rather than the already-parsed *program.Program
// the MUS stage built) so reported locations keep their real file/line
// attribution instead of a synthetic one from re-serialised source.
func runUnsatConstraints(files []string, museses []mus.UnsatisfiableSubset, out io.Writer) error {
	l := locator.New(nil)
	if err := l.ParseFiles(files); err != nil {
		return err
	}

	if len(museses) == 0 {
		results, err := l.Locate(nil)
		if err != nil {
			return err
		}
		printConstraints(results, out)
		return nil
	}

	for i, m := range museses {
		if len(m.Atoms) == 0 {
			continue
		}
		fmt.Fprintf(out, "unsat constraints for MUS %d:\n", i+1)
		results, err := l.Locate(m.Atoms)
		if err != nil {
			return err
		}
		printConstraints(results, out)
	}
	return nil
}

func printConstraints(results []locator.Constraint, out io.Writer) {
	for _, c := range results {
		fmt.Fprintln(out, c.String())
	}
}

// runDecisions grounds raw and drives the Solver-Decision Observer over
// every ground atom, in a stable order, printing one line per
// decision/entailment of each event whose decision or entailments match
// sigs (every event, if sigs is empty) (spec §6 "Decision stream", §4.8).
func runDecisions(raw *program.Program, sigs []rewrite.Signature, log *logrus.Entry, out io.Writer) error {
	control := solver.New(log)
	control.AddParsedProgram(raw)
	if err := control.Ground(); err != nil {
		return err
	}

	atoms, err := control.SymbolicAtoms()
	if err != nil {
		return err
	}

	o := observer.New(control, sigs)
	events, err := o.Stream(atoms, false)
	if err != nil {
		return err
	}
	for _, line := range observer.RenderLines(events) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// parseConstants turns repeatable "name=value" --const flags into
// #const statements, the way the Assumption Preprocessor's constants()
// records #const declarations it finds in program text (spec §4.2).
func parseConstants(values []string) ([]program.Stmt, error) {
	out := make([]program.Stmt, 0, len(values))
	for _, v := range values {
		idx := strings.Index(v, "=")
		if idx < 0 {
			return nil, fmt.Errorf("malformed constant binding %q: expected name=value", v)
		}
		name := v[:idx]
		value, err := symbol.ParseGround(v[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("malformed constant binding %q: %w", v, err)
		}
		out = append(out, program.Stmt{Kind: program.KindConstDef, ConstName: name, ConstValue: value})
	}
	return out, nil
}

// parseSignatures parses repeatable "name/arity" --assumption-signature
// flag values into Signatures. A nil/absent values yields nil (the
// AssumptionTransformer's "no filter configured, convert every fact"
// case), distinct from an explicitly empty flag list, which cobra
// surfaces as a non-nil empty slice (the "convert nothing" case).
func parseSignatures(values []string) ([]rewrite.Signature, error) {
	if values == nil {
		return nil, nil
	}
	out := make([]rewrite.Signature, 0, len(values))
	for _, v := range values {
		idx := strings.LastIndex(v, "/")
		if idx < 0 {
			return nil, fmt.Errorf("malformed signature %q: expected name/arity", v)
		}
		arity, err := strconv.Atoi(v[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("malformed signature %q: %w", v, err)
		}
		out = append(out, rewrite.Signature{Name: v[:idx], Arity: arity})
	}
	return out, nil
}
