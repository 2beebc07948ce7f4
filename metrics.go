package main

import "strconv"

// ConfusionMatrix counts binary on-target/off-target calls against the truth.
type ConfusionMatrix struct {
	TP int64
	FP int64
	TN int64
	FN int64
}

// Add records one call. Exactly one bucket is incremented.
func (m *ConfusionMatrix) Add(truth, predicted bool) {
	switch {
	case truth && predicted:
		m.TP++
	case !truth && predicted:
		m.FP++
	case !truth && !predicted:
		m.TN++
	default:
		m.FN++
	}
}

func (m ConfusionMatrix) Total() int64 {
	return m.TP + m.FP + m.TN + m.FN
}

func (m ConfusionMatrix) Accuracy() float64 {
	return ratio(m.TP+m.TN, m.Total())
}

func (m ConfusionMatrix) Precision() float64 {
	return ratio(m.TP, m.TP+m.FP)
}

func (m ConfusionMatrix) Recall() float64 {
	return ratio(m.TP, m.TP+m.FN)
}

// F1 is the harmonic mean of precision and recall, or 0 when both are 0.
func (m ConfusionMatrix) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Result is the outcome of scoring a prediction set.
type Result struct {
	Matrix  ConfusionMatrix
	Missing int64 // predictions for reads the ground truth does not know
}

// Evaluate scores predictions against the ground truth, in order.
func Evaluate(gt *GroundTruth, preds []Prediction) Result {
	var res Result
	for _, p := range preds {
		truth, known := gt.Lookup(p.Read)
		if !known {
			res.Missing++
			continue
		}
		res.Matrix.Add(truth, p.OnTarget)
	}
	return res
}

// Comma formats value with thousands separators.
func Comma(value int64) string {
	str := strconv.FormatInt(value, 10)
	neg := false
	if value < 0 {
		neg = true
		str = str[1:]
	}
	result := ""
	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(str[i]) + result
		count++
	}
	if neg {
		result = "-" + result
	}
	return result
}
