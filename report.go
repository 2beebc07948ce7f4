package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

const defaultTitle = "Evaluation Results"

var rule = strings.Repeat("-", 30)

// ReportOptions controls how a Result is rendered.
type ReportOptions struct {
	Format  string
	Title   string // header of the text report; defaultTitle when empty
	NoColor bool
}

// summary is the flat record written by the tsv and json formats.
type summary struct {
	Total     int64   `json:"total"`
	TP        int64   `json:"tp"`
	FP        int64   `json:"fp"`
	TN        int64   `json:"tn"`
	FN        int64   `json:"fn"`
	Missing   int64   `json:"missing"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

func newSummary(res Result) summary {
	m := res.Matrix
	return summary{
		Total:     m.Total(),
		TP:        m.TP,
		FP:        m.FP,
		TN:        m.TN,
		FN:        m.FN,
		Missing:   res.Missing,
		Accuracy:  m.Accuracy(),
		Precision: m.Precision(),
		Recall:    m.Recall(),
		F1:        m.F1(),
	}
}

// WriteReport renders res to w.
func WriteReport(w io.Writer, res Result, opts ReportOptions) error {
	format := opts.Format
	switch format {
	case FormatText, "":
		title := opts.Title
		if title == "" {
			title = defaultTitle
		}
		return writeText(w, res, title, colorFor(w, opts.NoColor, color.FgHiGreen))
	case FormatTSV:
		return writeTSV(w, newSummary(res))
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newSummary(res))
	}
	return errors.Errorf("unknown output format %q (want %s, %s or %s)", format, FormatText, FormatTSV, FormatJSON)
}

func writeText(w io.Writer, res Result, title string, hi *color.Color) error {
	m := res.Matrix

	ew := &errWriter{w: w}
	ew.printf("%s\n%s\n%s\n", rule, title, rule)
	ew.printf("Total Samples: %s\n", Comma(m.Total()))
	ew.printf("True Positives (TP): %s\n", Comma(m.TP))
	ew.printf("False Positives (FP): %s\n", Comma(m.FP))
	ew.printf("True Negatives (TN): %s\n", Comma(m.TN))
	ew.printf("False Negatives (FN): %s\n", Comma(m.FN))
	ew.printf("%s\n", rule)
	ew.colorf(hi, "Accuracy : %.4f\n", m.Accuracy())
	ew.colorf(hi, "Precision: %.4f\n", m.Precision())
	ew.colorf(hi, "Recall   : %.4f\n", m.Recall())
	ew.colorf(hi, "F1 Score : %.4f\n", m.F1())
	ew.printf("%s\n", rule)
	return ew.err
}

func writeTSV(w io.Writer, s summary) error {
	ew := &errWriter{w: w}
	ew.printf("total\ttp\tfp\ttn\tfn\tmissing\taccuracy\tprecision\trecall\tf1\n")
	ew.printf("%d\t%d\t%d\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n",
		s.Total, s.TP, s.FP, s.TN, s.FN, s.Missing,
		s.Accuracy, s.Precision, s.Recall, s.F1)
	return ew.err
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) colorf(c *color.Color, format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = c.Fprintf(e.w, format, args...)
}

// colorFor returns a colour for writing to w. Files are coloured only when
// they are terminals and NO_COLOR/TERM=dumb are unset; other writers follow
// color.NoColor.
func colorFor(w io.Writer, disabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if disabled {
		c.DisableColor()
		return c
	}
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		if tty && os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb" {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return c
}

// IsBrokenPipe reports whether err comes from a reader (like `head`) closing
// our output early.
func IsBrokenPipe(err error) bool {
	err = errors.Cause(err)
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
