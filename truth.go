package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// TruthMode selects how a ground-truth PAF is turned into per-read labels.
type TruthMode int

const (
	// TruthLabels labels each read from its target column: "*" means off-target.
	// Reads that never appear are unknown.
	TruthLabels TruthMode = iota
	// TruthPresence treats every read named in the file as on-target and every
	// other read as off-target.
	TruthPresence
)

func (m TruthMode) String() string {
	switch m {
	case TruthLabels:
		return "labels"
	case TruthPresence:
		return "presence"
	}
	return "unknown"
}

// PAF column indexes (0-based).
const (
	pafQueryName  = 0
	pafTargetName = 5
	pafMandatory  = 12
)

const unmappedTarget = "*"

// NotFoundError reports an input path that does not exist.
type NotFoundError struct {
	Kind string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s file not found at %s", e.Kind, e.Path)
}

// GroundTruth maps read names to their true on-target status.
type GroundTruth struct {
	Mode   TruthMode
	labels map[string]bool
}

// Lookup returns the true status of read. known is false only in TruthLabels
// mode for reads the ground truth never mentioned.
func (g *GroundTruth) Lookup(read string) (onTarget, known bool) {
	onTarget, known = g.labels[read]
	if !known && g.Mode == TruthPresence {
		return false, true
	}
	return onTarget, known
}

// Len returns the number of distinct reads in the ground truth.
func (g *GroundTruth) Len() int {
	return len(g.labels)
}

// Counts returns the number of on-target and off-target reads.
func (g *GroundTruth) Counts() (on, off int) {
	for _, v := range g.labels {
		if v {
			on++
		}
	}
	return on, len(g.labels) - on
}

// ParseTruth reads a ground-truth PAF from r.
func ParseTruth(r io.Reader, mode TruthMode) (*GroundTruth, error) {
	if mode != TruthLabels && mode != TruthPresence {
		return nil, errors.Errorf("unsupported truth mode %d", mode)
	}
	gt := &GroundTruth{Mode: mode, labels: make(map[string]bool)}
	err := scanLines(r, func(line string) {
		switch mode {
		case TruthLabels:
			parts := strings.Split(strings.TrimSpace(line), "\t")
			if len(parts) <= pafTargetName {
				return
			}
			gt.labels[parts[pafQueryName]] = parts[pafTargetName] != unmappedTarget
		case TruthPresence:
			if strings.TrimSpace(line) == "" {
				return
			}
			name := line
			if i := strings.IndexByte(line, '\t'); i >= 0 {
				name = line[:i]
			}
			gt.labels[name] = true
		}
	})
	if err != nil {
		return nil, err
	}
	return gt, nil
}

// LoadTruth opens path and parses it with ParseTruth.
func LoadTruth(path string, mode TruthMode) (*GroundTruth, error) {
	f, err := openInput("PAF", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gt, err := ParseTruth(f, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading PAF file %s", path)
	}
	return gt, nil
}

// checkInput reports a missing path as a *NotFoundError.
func checkInput(kind, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &NotFoundError{Kind: kind, Path: path}
	}
	return nil
}

func openInput(kind, path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Kind: kind, Path: path}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s file", kind)
	}
	return f, nil
}
