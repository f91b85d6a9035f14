// File path: internal/llm/llm_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocalProviderEchoes(t *testing.T) {
	p := NewLocalProvider()
	got, err := p.Chat(context.Background(), []Message{
		{Role: "system", Content: "you are a patient"},
		{Role: "user", Content: "  how do you feel?  "},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "[local-stub] how do you feel?" {
		t.Fatalf("Chat = %q", got)
	}
}

func TestLocalProviderRejectsEmpty(t *testing.T) {
	p := NewLocalProvider()
	if _, err := p.Chat(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty message list")
	}
}

func TestOpenAIProviderParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "I have had this headache for two days."}},
			},
		})
	}))
	defer server.Close()

	t.Setenv("OPENAI_ENDPOINT", server.URL)
	p := NewOpenAIProvider("test-key")
	got, err := p.Chat(context.Background(), []Message{
		{Role: "system", Content: "you are a patient"},
		{Role: "user", Content: "tell me about the pain"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "I have had this headache for two days." {
		t.Fatalf("Chat = %q", got)
	}
}

func TestOpenAIProviderSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer server.Close()

	t.Setenv("OPENAI_ENDPOINT", server.URL)
	p := NewOpenAIProvider("test-key")
	if _, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error from API error payload")
	}
}
