// File path: internal/llm/local.go
package llm

import (
	"context"
	"fmt"
	"strings"
)

// LocalProvider is a deterministic offline stand-in used when no API key is
// configured and in tests.
type LocalProvider struct{}

// NewLocalProvider returns the echo provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1].Content
	return "[local-stub] " + strings.TrimSpace(last), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
