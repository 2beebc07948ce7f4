package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// PredFormat selects how prediction lines are interpreted.
type PredFormat int

const (
	// PredSimple is "<read> <status>" split on whitespace; only status "1" is on-target.
	PredSimple PredFormat = iota
	// PredAuto accepts "<read>\t0|1" lines and full PAF records, detected per line.
	PredAuto
)

func (f PredFormat) String() string {
	switch f {
	case PredSimple:
		return "simple"
	case PredAuto:
		return "auto"
	}
	return "unknown"
}

// Prediction is the classifier's call for one read.
type Prediction struct {
	Read     string
	OnTarget bool
}

// PredictionSet holds predictions in input order. Skipped counts lines
// PredAuto could not interpret.
type PredictionSet struct {
	Predictions []Prediction
	Skipped     int
}

// ParsePredictions reads predictions from r. Lines that cannot be interpreted
// are reported on warn, which may be nil.
func ParsePredictions(r io.Reader, format PredFormat, warn io.Writer) (*PredictionSet, error) {
	if format != PredSimple && format != PredAuto {
		return nil, errors.Errorf("unsupported prediction format %d", format)
	}
	if warn == nil {
		warn = io.Discard
	}

	set := &PredictionSet{}
	lineNo := 0
	err := scanLines(r, func(line string) {
		lineNo++
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}

		var (
			p  Prediction
			ok bool
		)
		switch format {
		case PredSimple:
			p, ok = parseSimple(line)
		case PredAuto:
			p, ok = parseAuto(line)
			if !ok {
				set.Skipped++
				fmt.Fprintf(warn, "Warning: Unknown format for line %d: %s\n", lineNo, line)
			}
		}
		if ok {
			set.Predictions = append(set.Predictions, p)
		}
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func parseSimple(line string) (Prediction, bool) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return Prediction{}, false
	}
	return Prediction{
		Read:     parts[0],
		OnTarget: strings.ToLower(parts[1]) == "1",
	}, true
}

func parseAuto(line string) (Prediction, bool) {
	parts := strings.Split(line, "\t")
	switch {
	case len(parts) == 2 && (parts[1] == "0" || parts[1] == "1"):
		return Prediction{Read: parts[0], OnTarget: parts[1] == "1"}, true
	case len(parts) >= pafMandatory:
		return Prediction{Read: parts[pafQueryName], OnTarget: parts[pafTargetName] != unmappedTarget}, true
	}
	return Prediction{}, false
}

// LoadPredictions opens path and parses it with ParsePredictions.
func LoadPredictions(path string, format PredFormat, warn io.Writer) (*PredictionSet, error) {
	f, err := openInput("Prediction", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := ParsePredictions(f, format, warn)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading prediction file %s", path)
	}
	return set, nil
}
