// File path: internal/llm/anthropic.go
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/meditrainhq/meditrain/internal/common"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider builds a provider with the model taken from
// MEDITRAIN_LLM_MODEL when set.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	model := strings.TrimSpace(os.Getenv("MEDITRAIN_LLM_MODEL"))
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	logger := common.Logger()
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, msg := range messages {
		switch strings.ToLower(msg.Role) {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		System:    system,
		Messages:  turns,
	})
	if err != nil {
		logger.Error("llm: anthropic request failed", "error", err)
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			logger.Debug("llm: anthropic response received",
				"size", len(block.Text),
				"tokens_in", message.Usage.InputTokens,
				"tokens_out", message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}
