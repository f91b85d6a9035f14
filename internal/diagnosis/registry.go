// File path: internal/diagnosis/registry.go
package diagnosis

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/meditrainhq/meditrain/internal/cases"
	"github.com/meditrainhq/meditrain/internal/common"
)

const (
	modelFile   = "diagnosis_model.gob"
	encoderFile = "symptom_encoder.json"
	metricsFile = "model_metrics.json"
)

// Config holds the classifier settings. The defaults reproduce the reference
// training recipe: 100 trees, seed 42, 80/20 train/test split.
type Config struct {
	Dir          string
	Trees        int
	Seed         int64
	TestFraction float64
}

// LoadConfig reads classifier configuration from the environment.
func LoadConfig() Config {
	cfg := Config{Dir: "models", Trees: 100, Seed: 42, TestFraction: 0.2}
	if dir := strings.TrimSpace(os.Getenv("MEDITRAIN_MODEL_DIR")); dir != "" {
		cfg.Dir = dir
	}
	return cfg
}

// Model bundles the fitted forest with the encoder it was trained against.
// The pair is swapped atomically; predictions never mix artifact generations.
type Model struct {
	Forest  *Forest
	Encoder *SymptomEncoder
}

// Registry owns the trained-model lifecycle: training writes artifacts and
// swaps the in-memory model; prediction lazily loads on first use and then
// reads lock-free. Training is serialized by a single-writer lock.
type Registry struct {
	cfg    Config
	gender GenderEncoder

	trainMu sync.Mutex
	loadMu  sync.Mutex
	model   atomic.Pointer[Model]
}

// Option customizes a Registry.
type Option func(*Registry)

// WithGenderEncoder replaces the default binary gender encoding.
func WithGenderEncoder(enc GenderEncoder) Option {
	return func(r *Registry) {
		if enc != nil {
			r.gender = enc
		}
	}
}

// NewRegistry constructs a Registry over the configured artifact directory.
func NewRegistry(cfg Config, opts ...Option) *Registry {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	r := &Registry{cfg: cfg, gender: BinaryGender}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Train fits a forest on the usable subset of the corpus, persists the model,
// encoder and metrics report, and atomically swaps the in-memory model.
// Records missing age, gender or diagnosis, or whose gender the encoder
// rejects, are dropped; an empty usable corpus aborts with ErrEmptyCorpus.
func (r *Registry) Train(ctx context.Context, corpus []cases.Record) (*Metrics, error) {
	if !r.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer r.trainMu.Unlock()
	logger := common.Logger()

	type example struct {
		age      float64
		gender   float64
		symptoms []string
		label    string
	}
	var examples []example
	for _, rec := range corpus {
		if !rec.Trainable() {
			continue
		}
		genderCode, err := r.gender(rec.Profile.Gender)
		if err != nil {
			logger.Warn("diagnosis: dropping record with unmapped gender", "case", rec.ID, "gender", rec.Profile.Gender)
			continue
		}
		examples = append(examples, example{
			age:      float64(*rec.Profile.Age),
			gender:   genderCode,
			symptoms: rec.Symptoms,
			label:    rec.CorrectDiagnosis,
		})
	}
	if len(examples) == 0 {
		return nil, ErrEmptyCorpus
	}
	logger.Info("diagnosis: training started", "records", len(corpus), "usable", len(examples))

	encoder := &SymptomEncoder{}
	symptomSets := make([][]string, len(examples))
	for i, ex := range examples {
		symptomSets[i] = ex.symptoms
	}
	encoder.Fit(symptomSets)

	labelSet := make(map[string]struct{})
	for _, ex := range examples {
		labelSet[ex.label] = struct{}{}
	}
	labels := make([]string, 0, len(labelSet))
	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	labelIndex := make(map[string]int, len(labels))
	for i, label := range labels {
		labelIndex[label] = i
	}

	n := len(examples)
	features := 2 + len(encoder.Classes)
	X := mat.NewDense(n, features, nil)
	y := make([]int, n)
	for i, ex := range examples {
		X.Set(i, 0, ex.age)
		X.Set(i, 1, ex.gender)
		for j, v := range encoder.Transform(ex.symptoms) {
			X.Set(i, 2+j, v)
		}
		y[i] = labelIndex[ex.label]
	}

	rng := rand.New(rand.NewSource(r.cfg.Seed))
	perm := rng.Perm(n)
	testN := int(float64(n) * r.cfg.TestFraction)
	if testN >= n {
		testN = n - 1
	}
	testIdx := perm[:testN]
	trainIdx := perm[testN:]

	forest := trainForestOn(X, y, trainIdx, labels, r.cfg.Trees, rng)

	metrics := evaluate(forest, X, y, testIdx)
	metrics.TrainSize = len(trainIdx)
	metrics.TrainedAt = time.Now().UTC()
	if testN == 0 {
		metrics.Note = "holdout partition empty: corpus too small for an 80/20 split"
	}

	if err := r.persist(forest, encoder, &metrics); err != nil {
		return nil, err
	}
	r.model.Store(&Model{Forest: forest, Encoder: encoder})
	logger.Info("diagnosis: training finished",
		"classes", len(labels), "symptom_columns", len(encoder.Classes),
		"train_size", metrics.TrainSize, "test_size", metrics.TestSize,
		"accuracy", metrics.Accuracy)
	return &metrics, nil
}

// trainForestOn restricts training to the given row subset by materializing a
// compact matrix view of those rows.
func trainForestOn(X *mat.Dense, y []int, trainIdx []int, labels []string, trees int, rng *rand.Rand) *Forest {
	_, cols := X.Dims()
	sub := mat.NewDense(len(trainIdx), cols, nil)
	subY := make([]int, len(trainIdx))
	for i, src := range trainIdx {
		sub.SetRow(i, mat.Row(nil, src, X))
		subY[i] = y[src]
	}
	return trainForest(sub, subY, labels, trees, rng)
}

// Predict encodes (age, gender, symptoms) with the training-time column order
// and returns the predicted diagnosis label. Prediction is safe for
// concurrent use; the loaded model is never mutated.
func (r *Registry) Predict(ctx context.Context, symptoms []string, age int, gender string) (string, error) {
	model, err := r.loaded()
	if err != nil {
		return "", err
	}
	genderCode, err := r.gender(gender)
	if err != nil {
		return "", err
	}
	known := model.Encoder.Known(symptoms)
	if len(known) == 0 {
		return "", ErrNoRecognizedSymptoms
	}
	features := make([]float64, 0, 2+len(model.Encoder.Classes))
	features = append(features, float64(age), genderCode)
	features = append(features, model.Encoder.Transform(known)...)
	label := model.Forest.Predict(features)
	return model.Forest.Labels[label], nil
}

// Metrics returns the persisted evaluation report from the last training run.
func (r *Registry) Metrics() (*Metrics, error) {
	data, err := os.ReadFile(filepath.Join(r.cfg.Dir, metricsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelUnavailable
		}
		return nil, fmt.Errorf("read metrics report: %w", err)
	}
	var m Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metrics report: %w", err)
	}
	return &m, nil
}

// Trained reports whether a model is loaded or loadable.
func (r *Registry) Trained() bool {
	_, err := r.loaded()
	return err == nil
}

func (r *Registry) loaded() (*Model, error) {
	if model := r.model.Load(); model != nil {
		return model, nil
	}
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	if model := r.model.Load(); model != nil {
		return model, nil
	}
	model, err := r.loadArtifacts()
	if err != nil {
		return nil, err
	}
	r.model.Store(model)
	common.Logger().Info("diagnosis: model artifacts loaded",
		"classes", len(model.Forest.Labels), "symptom_columns", len(model.Encoder.Classes))
	return model, nil
}

func (r *Registry) loadArtifacts() (*Model, error) {
	modelData, err := os.ReadFile(filepath.Join(r.cfg.Dir, modelFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelUnavailable
		}
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	encoderData, err := os.ReadFile(filepath.Join(r.cfg.Dir, encoderFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrModelUnavailable
		}
		return nil, fmt.Errorf("read encoder artifact: %w", err)
	}
	forest := &Forest{}
	if err := gob.NewDecoder(bytes.NewReader(modelData)).Decode(forest); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	encoder := &SymptomEncoder{}
	if err := json.Unmarshal(encoderData, encoder); err != nil {
		return nil, fmt.Errorf("decode encoder artifact: %w", err)
	}
	encoder.buildIndex()
	return &Model{Forest: forest, Encoder: encoder}, nil
}

// persist writes all three artifacts with a write-then-rename so concurrent
// readers never observe a partial file.
func (r *Registry) persist(forest *Forest, encoder *SymptomEncoder, metrics *Metrics) error {
	if err := os.MkdirAll(r.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	var modelBuf bytes.Buffer
	if err := gob.NewEncoder(&modelBuf).Encode(forest); err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	encoderData, err := json.MarshalIndent(encoder, "", "  ")
	if err != nil {
		return fmt.Errorf("encode encoder artifact: %w", err)
	}
	metricsData, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics report: %w", err)
	}
	for name, data := range map[string][]byte{
		modelFile:   modelBuf.Bytes(),
		encoderFile: encoderData,
		metricsFile: metricsData,
	} {
		if err := writeAtomic(filepath.Join(r.cfg.Dir, name), data); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage artifact %q: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close artifact %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish artifact %q: %w", path, err)
	}
	return nil
}
