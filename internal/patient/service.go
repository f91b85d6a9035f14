// File path: internal/patient/service.go
package patient

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/meditrainhq/meditrain/internal/cases"
	"github.com/meditrainhq/meditrain/internal/common"
	"github.com/meditrainhq/meditrain/internal/diagnosis"
	"github.com/meditrainhq/meditrain/internal/gate"
	"github.com/meditrainhq/meditrain/internal/llm"
	"github.com/meditrainhq/meditrain/internal/symptom"
)

const (
	caseNotFoundReply = "Case not found."
	couldNotHearReply = "Sorry, I couldn't hear you clearly. Could you please repeat that?"
	deflectionReply   = "I'm not sure about that, Doctor. Can we talk about my health instead?"
	llmFailureReply   = "Sorry, something went wrong while generating the response."
	defaultIntro      = "Hello doctor, I'm not feeling well."
	noSymptomsReply   = "Sorry, I couldn't detect any medical symptoms. Can you describe your issues in more detail?"

	// unintelligibleAudio is the sentinel the transcription front-end sends
	// when it could not decode the recording.
	unintelligibleAudio = "Could not understand audio"

	defaultLLMTimeout = 30 * time.Second
)

var (
	diagnosisLine = regexp.MustCompile(`(?i)diagnosis[:\-]\s*(.+)`)
	treatmentLine = regexp.MustCompile(`(?i)treatment[:\-]\s*(.+)`)
)

// Service orchestrates the single-exchange conversation flows: the virtual
// patient chat, the symptom-to-diagnosis chat, and the answer-extraction
// workflow. All methods are safe for concurrent use.
type Service struct {
	store     *cases.Store
	gate      *gate.Gate
	extractor *symptom.Extractor
	registry  *diagnosis.Registry
	provider  llm.Provider
	timeout   time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeout bounds each language-model call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService wires the conversation flows over their collaborators.
func NewService(store *cases.Store, g *gate.Gate, extractor *symptom.Extractor, registry *diagnosis.Registry, provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		store:     store,
		gate:      g,
		extractor: extractor,
		registry:  registry,
		provider:  provider,
		timeout:   defaultLLMTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat produces the virtual patient's reply to one doctor message. Failures
// never reach the trainee as errors: unknown cases, unintelligible audio,
// off-topic questions and language-model outages all map to in-character
// fallback replies.
func (s *Service) Chat(ctx context.Context, caseID, message string) string {
	logger := common.Logger()
	rec, err := s.store.Load(caseID)
	if err != nil {
		if !errors.Is(err, cases.ErrNotFound) {
			logger.Error("patient: case load failed", "case", caseID, "error", err)
		}
		return caseNotFoundReply
	}

	msg := strings.TrimSpace(message)
	if msg == unintelligibleAudio {
		return couldNotHearReply
	}
	if msg == "" {
		if rec.IntroMessage != "" {
			return rec.IntroMessage
		}
		return defaultIntro
	}
	if gate.GeneralKnowledge(msg) {
		return deflectionReply
	}

	prompt := BuildPrompt(rec, msg)
	reply, err := s.complete(ctx, prompt)
	if err != nil {
		logger.Warn("patient: language model call failed", "case", caseID, "error", err)
		return llmFailureReply
	}
	return reply
}

// DiagnoseResult is the outcome of the symptom-to-diagnosis chat.
type DiagnoseResult struct {
	Reply     string   `json:"reply"`
	Diagnosis string   `json:"diagnosis,omitempty"`
	Symptoms  []string `json:"symptoms,omitempty"`
}

// ChatDiagnose gates the message, extracts symptoms and runs the classifier.
// Out-of-domain input and empty extractions get conversational replies;
// classifier failures surface as typed errors for the transport layer.
func (s *Service) ChatDiagnose(ctx context.Context, message string, age int, gender string) (*DiagnoseResult, error) {
	if !s.gate.Allowed(message) {
		return &DiagnoseResult{Reply: gate.RejectionMessage}, nil
	}
	symptoms := s.extractor.Extract(ctx, message)
	if len(symptoms) == 0 {
		return &DiagnoseResult{Reply: noSymptomsReply}, nil
	}
	predicted, err := s.registry.Predict(ctx, symptoms, age, gender)
	if err != nil {
		return nil, err
	}
	reply := fmt.Sprintf(
		"Based on your symptoms: %s, you may be experiencing: **%s**.\n\n"+
			"This is a preliminary suggestion. Please consult a doctor for a professional diagnosis.",
		strings.Join(symptoms, ", "), predicted)
	return &DiagnoseResult{Reply: reply, Diagnosis: predicted, Symptoms: symptoms}, nil
}

// ExtractAnswer asks the language model to pull the trainee's diagnosis and
// treatment out of a conversation transcript. A model failure degrades to
// empty answers rather than an error; the grader treats those as zero-score
// submissions.
func (s *Service) ExtractAnswer(ctx context.Context, conversation string) (diagnosisText, treatmentText string) {
	prompt := fmt.Sprintf(
		"From the following conversation, extract diagnosis and treatment:\n%s\n\nFormat:\nDiagnosis: <...>\nTreatment: <...>",
		conversation)
	out, err := s.complete(ctx, prompt)
	if err != nil {
		common.Logger().Warn("patient: answer extraction failed", "error", err)
		return "", ""
	}
	return ParseAnswer(out)
}

// ParseAnswer scans model output for "Diagnosis:" and "Treatment:" lines.
// Missing lines yield empty strings.
func ParseAnswer(text string) (diagnosisText, treatmentText string) {
	if m := diagnosisLine.FindStringSubmatch(text); m != nil {
		diagnosisText = strings.TrimSpace(m[1])
	}
	if m := treatmentLine.FindStringSubmatch(text); m != nil {
		treatmentText = strings.TrimSpace(m[1])
	}
	return diagnosisText, treatmentText
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
