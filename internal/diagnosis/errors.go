// File path: internal/diagnosis/errors.go
package diagnosis

import "errors"

var (
	// ErrModelUnavailable is returned when prediction is attempted before any
	// training run has produced artifacts.
	ErrModelUnavailable = errors.New("model not trained: train the model first")

	// ErrInvalidGender is returned when the gender encoder rejects the input.
	ErrInvalidGender = errors.New(`gender must be "male" or "female"`)

	// ErrNoRecognizedSymptoms is returned when filtering against the fitted
	// encoder vocabulary leaves nothing to predict on.
	ErrNoRecognizedSymptoms = errors.New("none of the symptoms are recognized from the training data")

	// ErrEmptyCorpus aborts a training run that found no usable records.
	ErrEmptyCorpus = errors.New("no valid case data found")

	// ErrTrainingInProgress enforces the single-writer training convention.
	ErrTrainingInProgress = errors.New("a training run is already in progress")
)
