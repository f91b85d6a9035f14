// File path: internal/report/report.go
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meditrainhq/meditrain/internal/common"
	"github.com/meditrainhq/meditrain/internal/llm"
)

const defaultTimeout = 60 * time.Second

// Input carries the patient facts a narrative report is written from.
type Input struct {
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Symptoms  []string `json:"symptoms"`
	Diagnosis string   `json:"diagnosis"`
	Duration  string   `json:"duration"`
}

// Service turns structured case facts into a narrative diagnosis report via
// the language model.
type Service struct {
	provider llm.Provider
	timeout  time.Duration
}

func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider, timeout: defaultTimeout}
}

// Narrative asks the model for a prose diagnosis report. Duration defaults to
// "unknown" when the caller leaves it empty.
func (s *Service) Narrative(ctx context.Context, in Input) (string, error) {
	duration := strings.TrimSpace(in.Duration)
	if duration == "" {
		duration = "unknown"
	}
	prompt := fmt.Sprintf(`Patient Name: %s
Age: %d
Gender: %s
Symptom Duration: %s
Symptoms: %s
Predicted Diagnosis: %s

Based on the above information, write a detailed, medically accurate diagnosis report including:
- Summary of the patient's condition
- Explanation of the likely diagnosis
- General treatment suggestions
- A professional tone`,
		in.Name, in.Age, in.Gender, duration, strings.Join(in.Symptoms, ", "), in.Diagnosis)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		common.Logger().Error("report: narrative generation failed", "provider", s.provider.Name(), "error", err)
		return "", fmt.Errorf("generate report: %w", err)
	}
	return strings.TrimSpace(out), nil
}
