// File path: internal/diagnosis/metrics.go
package diagnosis

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// LabelMetrics is the per-diagnosis slice of the classification report.
type LabelMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Metrics is the evaluation report persisted alongside the trained model.
type Metrics struct {
	Accuracy  float64                 `json:"accuracy"`
	Labels    map[string]LabelMetrics `json:"labels"`
	TrainSize int                     `json:"train_size"`
	TestSize  int                     `json:"test_size"`
	TrainedAt time.Time               `json:"trained_at"`
	Note      string                  `json:"note,omitempty"`
}

// evaluate scores the forest on the held-out rows and builds the per-label
// precision/recall/F1 report.
func evaluate(forest *Forest, X *mat.Dense, y []int, testIdx []int) Metrics {
	classes := len(forest.Labels)
	truePos := make([]int, classes)
	falsePos := make([]int, classes)
	falseNeg := make([]int, classes)
	support := make([]int, classes)

	correct := 0
	for _, i := range testIdx {
		predicted := forest.Predict(mat.Row(nil, i, X))
		actual := y[i]
		support[actual]++
		if predicted == actual {
			truePos[actual]++
			correct++
		} else {
			falsePos[predicted]++
			falseNeg[actual]++
		}
	}

	report := Metrics{
		Labels:   make(map[string]LabelMetrics, classes),
		TestSize: len(testIdx),
	}
	if len(testIdx) > 0 {
		report.Accuracy = float64(correct) / float64(len(testIdx))
	}
	for c, label := range forest.Labels {
		if support[c] == 0 && truePos[c] == 0 && falsePos[c] == 0 {
			continue
		}
		m := LabelMetrics{Support: support[c]}
		if denom := truePos[c] + falsePos[c]; denom > 0 {
			m.Precision = float64(truePos[c]) / float64(denom)
		}
		if denom := truePos[c] + falseNeg[c]; denom > 0 {
			m.Recall = float64(truePos[c]) / float64(denom)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Labels[label] = m
	}
	return report
}
