// File path: internal/grade/grade.go
package grade

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/meditrainhq/meditrain/internal/cases"
	"github.com/meditrainhq/meditrain/internal/textnorm"
)

// Score returns the fuzzy similarity between a candidate answer and the
// reference answer as a percentage in [0, 100]. Both texts are normalized
// first, then compared character-wise with the longest-matching-blocks ratio.
// Two empty strings score 100; empty versus non-empty scores 0.
func Score(candidate, reference string) float64 {
	a := strings.Split(textnorm.Normalize(candidate), "")
	b := strings.Split(textnorm.Normalize(reference), "")
	return difflib.NewMatcher(a, b).Ratio() * 100
}

// Report is the grading result for a submitted diagnosis and treatment.
type Report struct {
	Text     string   `json:"report"`
	Accuracy Accuracy `json:"accuracy"`
}

// Accuracy holds the two percentage scores.
type Accuracy struct {
	Diagnosis float64 `json:"diagnosis"`
	Treatment float64 `json:"treatment"`
}

// Grade scores the trainee's diagnosis and treatment against the case's
// ground truth and builds the human-readable summary.
func Grade(rec *cases.Record, diagnosis, treatment string) Report {
	diagAccuracy := Score(diagnosis, rec.CorrectDiagnosis)
	treatAccuracy := Score(treatment, rec.RecommendedTreatment)
	text := fmt.Sprintf(
		"Report:\nPatient described %s.\nDiagnosis: %s\nTreatment: %s\n\n"+
			"Diagnosis Accuracy: %.2f%%\nTreatment Accuracy: %.2f%%",
		rec.Profile.ChiefComplaint, diagnosis, treatment, diagAccuracy, treatAccuracy,
	)
	return Report{
		Text:     text,
		Accuracy: Accuracy{Diagnosis: diagAccuracy, Treatment: treatAccuracy},
	}
}
