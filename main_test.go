package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errBuf bytes.Buffer
	cmd := RootCommand(&out, &errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestMetricsCommand(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "read1 1\nread2 1\nread3 0\nread9 1\n\n")

	stdout, stderr, err := runCLI(t, "metrics", truth, pred)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Reading Ground Truth from: "+truth)
	assert.Contains(t, stdout, "Loaded 3 reads from Ground Truth (2 On-Target, 1 Off-Target).")
	assert.Contains(t, stdout, "Parsed 4 predictions.")
	assert.Contains(t, stdout, "Total Samples: 3\n")
	assert.Contains(t, stdout, "True Positives (TP): 1\n")
	assert.Contains(t, stdout, "False Positives (FP): 1\n")
	assert.Contains(t, stdout, "True Negatives (TN): 0\n")
	assert.Contains(t, stdout, "False Negatives (FN): 1\n")
	assert.Contains(t, stdout, "Accuracy : 0.3333\n")
	assert.Contains(t, stdout, "Precision: 0.5000\n")
	assert.Contains(t, stdout, "Recall   : 0.5000\n")
	assert.Contains(t, stdout, "F1 Score : 0.5000\n")
	assert.Contains(t, stderr, "Warning: 1 reads from prediction file were not found in Ground Truth PAF.")
}

func TestEvaluateCommand(t *testing.T) {
	truth := writeFile(t, "true_mappings.paf", truthPAF)
	pred := writeFile(t, "pred.paf",
		"read1\t1\n"+
			"read4\t800\t0\t790\t+\tchr3\t5000\t10\t800\t700\t790\t60\n"+
			"read2\t0\n"+
			"read5\t0\n"+
			"garbage line\n")

	stdout, stderr, err := runCLI(t, "evaluate", "--format", "tsv", truth, pred)
	require.NoError(t, err)

	// read1 TP, read4 FP, read2 FN (named in truth), read5 TN.
	assert.Equal(t,
		"total\ttp\tfp\ttn\tfn\tmissing\taccuracy\tprecision\trecall\tf1\n"+
			"4\t1\t1\t1\t1\t0\t0.5000\t0.5000\t0.5000\t0.5000\n",
		stdout)
	assert.Contains(t, stderr, "Reading Predictions from: "+pred)
	assert.Contains(t, stderr, "Unknown format for line 5: garbage line")
	assert.Contains(t, stderr, "1 lines in prediction file had an unknown format")
}

func TestJSONQuiet(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "read1 1\nread2 0\n")

	stdout, stderr, err := runCLI(t, "metrics", "-q", "-f", "json", truth, pred)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var got summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, int64(2), got.Total)
	assert.InDelta(t, 1.0, got.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, got.F1, 1e-9)
}

func TestNoPredictions(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "\nonlyname\n")

	stdout, _, err := runCLI(t, "metrics", truth, pred)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Parsed 0 predictions.\nNo valid predictions found.\n")
	assert.NotContains(t, stdout, "Evaluation Results")
}

func TestMissingInputs(t *testing.T) {
	dir := t.TempDir()
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "read1 1\n")
	missing := filepath.Join(dir, "nope")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"Truth", []string{"metrics", missing, pred}, "PAF file not found at " + missing},
		{"Prediction", []string{"evaluate", truth, missing}, "Prediction file not found at " + missing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tc.args...)
			require.Error(t, err)
			_, ok := errors.Cause(err).(*NotFoundError)
			assert.True(t, ok)
			assert.Equal(t, tc.wantMsg, err.Error())
			assert.Empty(t, stdout)
		})
	}
}

func TestBadArguments(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)

	_, _, err := runCLI(t, "metrics", truth)
	assert.Error(t, err)

	_, _, err = runCLI(t, "metrics", "-f", "xml", truth, truth)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown output format"))
}

func TestRunEvaluationBrokenPipe(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "read1 1\n")

	opts := options{truthMode: TruthLabels, predFormat: PredSimple, format: FormatTSV, quiet: true}
	var stderr bytes.Buffer
	err := RunEvaluation(truth, pred, opts, failingWriter{errors.Wrap(io.ErrClosedPipe, "stdout")}, &stderr)
	assert.NoError(t, err)
}

func TestColorFlag(t *testing.T) {
	withColor(t)
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "read1 1\nread9 1\n")

	stdout, stderr, err := runCLI(t, "metrics", truth, pred)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\x1b[92mAccuracy : 1.0000")
	assert.Contains(t, stderr, "\x1b[95mWarning: 1 reads")

	stdout, stderr, err = runCLI(t, "metrics", "--no-color", truth, pred)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "\x1b[")
	assert.NotContains(t, stderr, "\x1b[")
	assert.Contains(t, stdout, "Accuracy : 1.0000\n")

	// --no-color is per run and leaves the package default alone.
	assert.False(t, color.NoColor)
}

func TestTextReportEndsWithReport(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.txt", "read1 1\n")

	stdout, stderr, err := runCLI(t, "metrics", truth, pred)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stdout, "F1 Score : 1.0000\n"+rule+"\n"), stdout)
	assert.NotContains(t, stdout, "Execution time")
	assert.Contains(t, stderr, "Execution time: ")
}

func TestLogLinesUsePlainCounts(t *testing.T) {
	var truth, pred strings.Builder
	for i := 0; i < 1500; i++ {
		fmt.Fprintf(&truth, "read%d\t100\t0\t90\t+\tchr1\t1000\t0\t90\t90\t90\t60\n", i)
	}
	for i := 0; i < 1234; i++ {
		fmt.Fprintf(&pred, "other%d 1\n", i)
	}
	fmt.Fprintf(&pred, "read0 1\n")
	truthPath := writeFile(t, "truth.paf", truth.String())
	predPath := writeFile(t, "pred.txt", pred.String())

	stdout, stderr, err := runCLI(t, "metrics", truthPath, predPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 1500 reads from Ground Truth (1500 On-Target, 0 Off-Target).")
	assert.Contains(t, stdout, "Parsed 1235 predictions.")
	assert.Contains(t, stderr, "Warning: 1234 reads from prediction file were not found in Ground Truth PAF.")
}

func TestReportTitleNamesPredictionFile(t *testing.T) {
	truth := writeFile(t, "truth.paf", truthPAF)
	pred := writeFile(t, "pred.paf", "read1\t1\n")

	stdout, _, err := runCLI(t, "evaluate", truth, pred)
	require.NoError(t, err)
	assert.Contains(t, stdout, rule+"\nEvaluation Results for: "+pred+"\n"+rule+"\n")

	stdout, _, err = runCLI(t, "metrics", truth, writeFile(t, "pred.txt", "read1 1\n"))
	require.NoError(t, err)
	assert.Contains(t, stdout, rule+"\nEvaluation Results\n"+rule+"\n")
}
