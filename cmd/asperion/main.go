// Command asperion is the thin CLI driver over pkg/asp/...: it owns
// none of the core's invariants, only flag parsing and output
// rendering (spec §6), the way cmd/operator-cli wires its root command.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "asperion [flags] program.lp...",
		Short: "asperion",
		Long: `asperion diagnoses unsatisfiable Answer Set Programming (ASP) programs:
it computes Minimal Unsatisfiable Subsets of a declared assumption set,
locates the integrity constraints responsible for an unsatisfiable
grounding, and can stream the solver's decision trail.`,

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = args
			return run(opts, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().BoolVar(&opts.mus, "mus", false, "compute a minimal unsatisfiable subset of the assumption set")
	rootCmd.Flags().BoolVar(&opts.unsatConstraints, "unsat-constraints", false, "locate the integrity constraints responsible for unsatisfiability")
	rootCmd.Flags().BoolVar(&opts.showDecisions, "show-decisions", false, "stream the solver's decisions and their entailments")
	rootCmd.Flags().StringArrayVar(&opts.assumptionSignatures, "assumption-signature", nil, "name/arity restricting which facts become assumptions (repeatable)")
	rootCmd.Flags().StringArrayVar(&opts.decisionSignatures, "decision-signature", nil, "name/arity restricting observed decisions (repeatable)")
	rootCmd.Flags().StringArrayVarP(&opts.constants, "const", "c", nil, "name=value constant binding passed through to the program (repeatable)")
	rootCmd.Flags().IntVar(&opts.models, "models", 1, "enumeration cap for --mus (0 means all)")
	rootCmd.Flags().StringVar(&opts.explorer, "explorer", "powerset", `candidate-subset explorer for --mus enumeration: "powerset" or "asp"`)
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "wall-clock deadline for MUS search (0 means no deadline)")

	rootCmd.Flags().Bool("debug", false, "enable debug logging")
	if err := rootCmd.Flags().MarkHidden("debug"); err != nil {
		log.Panic(err.Error())
	}

	return rootCmd
}
