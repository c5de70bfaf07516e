package evaluation

import (
	"fmt"
	"sort"

	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
)

// ConfusionMatrix holds the four cell counts of the binary case
type ConfusionMatrix struct {
	TrueNegative  int `json:"true_negative"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
	TruePositive  int `json:"true_positive"`
}

// Total returns the number of scored observations
func (m ConfusionMatrix) Total() int {
	return m.TrueNegative + m.FalsePositive + m.FalseNegative + m.TruePositive
}

// Report is the read-only evaluation result for one prediction set.
//
// Zero-denominator convention: when a class is entirely absent from the
// predictions or the truth, the affected metric reports 0 instead of
// failing. This mirrors the degenerate-metric fallback used throughout the
// pipeline and keeps all five scalars always defined.
type Report struct {
	Matrix    ConfusionMatrix `json:"confusion_matrix"`
	Accuracy  float64         `json:"accuracy"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1        float64         `json:"f1"`
	ROCAUC    float64         `json:"roc_auc"`
}

// Evaluate scores predicted labels against true labels, both binary and
// aligned by position. Length mismatch or non-binary values are hard
// input-validation failures, never silently tolerated.
func Evaluate(yTrue, yPred []int) (*Report, error) {
	if len(yTrue) == 0 {
		return nil, pipeerrors.NewValidationError("evaluation", "evaluate", "empty label vectors")
	}
	if len(yTrue) != len(yPred) {
		return nil, pipeerrors.NewValidationError("evaluation", "evaluate",
			fmt.Sprintf("length mismatch: %d true labels vs %d predictions", len(yTrue), len(yPred)))
	}

	var m ConfusionMatrix
	for i := range yTrue {
		if err := checkBinary(yTrue[i], i, "true label"); err != nil {
			return nil, err
		}
		if err := checkBinary(yPred[i], i, "prediction"); err != nil {
			return nil, err
		}

		switch {
		case yTrue[i] == 0 && yPred[i] == 0:
			m.TrueNegative++
		case yTrue[i] == 0 && yPred[i] == 1:
			m.FalsePositive++
		case yTrue[i] == 1 && yPred[i] == 0:
			m.FalseNegative++
		default:
			m.TruePositive++
		}
	}

	scores := make([]float64, len(yPred))
	for i, p := range yPred {
		scores[i] = float64(p)
	}

	return &Report{
		Matrix:    m,
		Accuracy:  ratio(m.TruePositive+m.TrueNegative, m.Total()),
		Precision: ratio(m.TruePositive, m.TruePositive+m.FalsePositive),
		Recall:    ratio(m.TruePositive, m.TruePositive+m.FalseNegative),
		F1:        f1Score(m),
		ROCAUC:    rocAUC(yTrue, scores),
	}, nil
}

func checkBinary(v, pos int, what string) error {
	if v != 0 && v != 1 {
		return pipeerrors.NewValidationError("evaluation", "evaluate",
			fmt.Sprintf("non-binary %s %d at position %d", what, v, pos))
	}
	return nil
}

// ratio returns num/den with the documented 0 fallback for an empty
// denominator
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1Score(m ConfusionMatrix) float64 {
	p := ratio(m.TruePositive, m.TruePositive+m.FalsePositive)
	r := ratio(m.TruePositive, m.TruePositive+m.FalseNegative)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// rocAUC computes the binary area under the ROC curve as the rank statistic
// P(score_pos > score_neg) + 0.5*P(score_pos == score_neg) over all
// positive/negative pairs. With hard 0/1 predictions as scores this reduces
// to the balanced accuracy of the prediction set.
//
// If the truth contains only one class no pair exists and the area is
// undefined; the documented degenerate fallback of 0 is returned.
func rocAUC(yTrue []int, scores []float64) float64 {
	type scored struct {
		score float64
		pos   bool
	}

	items := make([]scored, len(yTrue))
	posTotal := 0
	for i := range yTrue {
		items[i] = scored{score: scores[i], pos: yTrue[i] == 1}
		if items[i].pos {
			posTotal++
		}
	}
	negTotal := len(yTrue) - posTotal
	if posTotal == 0 || negTotal == 0 {
		return 0
	}

	sort.Slice(items, func(a, b int) bool { return items[a].score < items[b].score })

	// Sum the ranks of the positives, averaging ranks across tied scores
	// (Mann-Whitney U)
	rankSum := 0.0
	i := 0
	for i < len(items) {
		j := i
		for j < len(items) && items[j].score == items[i].score {
			j++
		}
		avgRank := float64(i+j+1) / 2 // 1-based ranks i+1 .. j averaged
		for k := i; k < j; k++ {
			if items[k].pos {
				rankSum += avgRank
			}
		}
		i = j
	}

	u := rankSum - float64(posTotal)*float64(posTotal+1)/2
	return u / (float64(posTotal) * float64(negTotal))
}
