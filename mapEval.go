package main

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// maxLineSize bounds a single input line. PAF records carrying cg:Z/cs:Z tags
// for long reads easily exceed bufio's 64KiB default.
const maxLineSize = 64 << 20

type options struct {
	truthMode  TruthMode
	predFormat PredFormat
	format     string
	quiet      bool
	noColor    bool
	// titlePath names the prediction file in the text report header.
	titlePath bool
}

// scanLines calls fn for each line of r without its line terminator.
func scanLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "error reading file")
	}
	return nil
}

// RunEvaluation scores the predictions in predPath against the ground truth in
// truthPath and writes the report to stdout. Progress lines go to stdout for the
// text format and to stderr otherwise, so tsv/json output stays machine readable.
// Warnings and the execution time always go to stderr.
func RunEvaluation(truthPath, predPath string, opts options, stdout, stderr io.Writer) error {
	startTime := time.Now()

	switch opts.format {
	case FormatText, FormatTSV, FormatJSON:
	default:
		return errors.Errorf("unknown output format %q", opts.format)
	}
	if err := checkInput("PAF", truthPath); err != nil {
		return err
	}
	if err := checkInput("Prediction", predPath); err != nil {
		return err
	}

	progress := stdout
	if opts.format != FormatText {
		progress = stderr
	}
	logf := func(format string, args ...interface{}) {
		if !opts.quiet {
			fmt.Fprintf(progress, format, args...)
		}
	}
	warn := colorFor(stderr, opts.noColor, color.FgHiMagenta)

	logf("Reading Ground Truth from: %s\n", truthPath)
	gt, err := LoadTruth(truthPath, opts.truthMode)
	if err != nil {
		return err
	}
	on, off := gt.Counts()
	logf("Loaded %d reads from Ground Truth (%d On-Target, %d Off-Target).\n", gt.Len(), on, off)

	logf("Reading Predictions from: %s\n", predPath)
	preds, err := LoadPredictions(predPath, opts.predFormat, stderr)
	if err != nil {
		return err
	}
	logf("Parsed %d predictions.\n", len(preds.Predictions))
	if preds.Skipped > 0 {
		warn.Fprintf(stderr, "Warning: %d lines in prediction file had an unknown format and were skipped.\n", preds.Skipped)
	}

	if len(preds.Predictions) == 0 {
		fmt.Fprintln(stdout, "No valid predictions found.")
		return nil
	}

	res := Evaluate(gt, preds.Predictions)
	if res.Missing > 0 {
		warn.Fprintf(stderr, "Warning: %d reads from prediction file were not found in Ground Truth PAF.\n", res.Missing)
	}

	ropts := ReportOptions{Format: opts.format, NoColor: opts.noColor}
	if opts.titlePath {
		ropts.Title = fmt.Sprintf("%s for: %s", defaultTitle, predPath)
	}
	if err := WriteReport(stdout, res, ropts); err != nil {
		if IsBrokenPipe(err) {
			return nil
		}
		return errors.Wrap(err, "error writing report")
	}
	if !opts.quiet {
		fmt.Fprintf(stderr, "Execution time: %s\n", time.Since(startTime))
	}
	return nil
}
