package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	noColor      bool
	quiet        bool
)

// RootCommand builds the mapEval command tree writing to stdout and stderr.
func RootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "mapEval",
		Short:         "Score on-target/off-target read classification against a ground-truth PAF",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&outputFormat, "format", "f", FormatText, "Report format (text, tsv, json)")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress messages")

	root.AddCommand(
		evalCommand(stdout, stderr,
			"metrics <truth.paf> <predictions.txt>",
			"Score '<read> <1/0>' predictions against PAF target labels",
			`Reads in the ground-truth PAF are on-target unless their target name
(column 6) is '*'. Predictions are whitespace separated '<read> <status>' lines
where status 1 means on-target. Predicted reads missing from the ground truth
are reported and left out of the confusion matrix.`,
			TruthLabels, PredSimple, false),
		evalCommand(stdout, stderr,
			"evaluate <true_mappings.paf> <pred.paf>",
			"Score predictions or a PAF against the set of truly mapped reads",
			`Every read named in the ground-truth PAF counts as mapped; all other reads
are unmapped. Prediction lines are either '<read>\t0|1' or full PAF records,
where a target name of '*' means unmapped. Lines in neither form are skipped
with a warning.`,
			TruthPresence, PredAuto, true),
	)
	return root
}

func evalCommand(stdout, stderr io.Writer, use, short, long string, mode TruthMode, pf PredFormat, titlePath bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options{
				truthMode:  mode,
				predFormat: pf,
				format:     outputFormat,
				quiet:      quiet,
				noColor:    noColor,
				titlePath:  titlePath,
			}
			return RunEvaluation(args[0], args[1], opts, stdout, stderr)
		},
	}
}

func main() {
	if err := RootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
