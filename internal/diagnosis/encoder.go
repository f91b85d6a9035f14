// File path: internal/diagnosis/encoder.go
package diagnosis

import (
	"fmt"
	"sort"
	"strings"
)

// SymptomEncoder is a multi-label binarizer over the symptom vocabulary seen
// at training time. The column order is fixed when Fit runs and must be used
// unchanged at prediction time; symptoms unseen during training are dropped,
// never added as new columns.
type SymptomEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

// Fit learns the column set from the union of all symptom lists, sorted for a
// stable order.
func (e *SymptomEncoder) Fit(symptomSets [][]string) {
	seen := make(map[string]struct{})
	for _, set := range symptomSets {
		for _, s := range set {
			seen[s] = struct{}{}
		}
	}
	e.Classes = make([]string, 0, len(seen))
	for s := range seen {
		e.Classes = append(e.Classes, s)
	}
	sort.Strings(e.Classes)
	e.buildIndex()
}

func (e *SymptomEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, class := range e.Classes {
		e.index[class] = i
	}
}

// Known filters the input to symptoms present in the fitted vocabulary,
// preserving input order.
func (e *SymptomEncoder) Known(symptoms []string) []string {
	if e.index == nil {
		e.buildIndex()
	}
	var known []string
	for _, s := range symptoms {
		if _, ok := e.index[s]; ok {
			known = append(known, s)
		}
	}
	return known
}

// Transform produces the multi-hot vector for a symptom list using the fitted
// column order. Unknown symptoms are ignored.
func (e *SymptomEncoder) Transform(symptoms []string) []float64 {
	if e.index == nil {
		e.buildIndex()
	}
	vec := make([]float64, len(e.Classes))
	for _, s := range symptoms {
		if i, ok := e.index[s]; ok {
			vec[i] = 1
		}
	}
	return vec
}

// GenderEncoder maps a gender string onto a numeric feature. The encoding is
// pluggable so that extending beyond the binary scheme does not silently
// mispredict; anything the encoder rejects is dropped from training and
// surfaced as a validation error at prediction time.
type GenderEncoder func(gender string) (float64, error)

// BinaryGender is the default male→0 / female→1 encoding, case-insensitive.
func BinaryGender(gender string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male":
		return 0, nil
	case "female":
		return 1, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidGender, gender)
}
