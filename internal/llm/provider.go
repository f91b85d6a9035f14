// File path: internal/llm/provider.go
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/meditrainhq/meditrain/internal/common"
)

// Message is one turn of a chat exchange with the language model.
type Message struct {
	Role    string
	Content string
}

// Provider is the language-model capability boundary: a prompt goes in, a
// completion comes out. Callers own timeout and fallback handling; the
// provider has no latency or retry contract.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// NewProvider selects a provider from the environment: Anthropic when
// ANTHROPIC_API_KEY is set, OpenAI when OPENAI_API_KEY is set, otherwise the
// local echo fallback so the rest of the system stays usable offline.
func NewProvider() Provider {
	logger := common.Logger()
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		logger.Info("llm: anthropic provider selected")
		return NewAnthropicProvider(key)
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		logger.Info("llm: openai provider selected")
		return NewOpenAIProvider(key)
	}
	logger.Warn("llm: no API key configured; falling back to local provider")
	return NewLocalProvider()
}
