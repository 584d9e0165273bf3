package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMockProvider(t *testing.T) {
	mock := &MockProvider{Response: "Hello world"}
	resp, err := mock.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "Hello world" {
		t.Errorf("Expected 'Hello world', got '%s'", resp.Content)
	}
}

func TestScriptedMockProviderOrder(t *testing.T) {
	mock := NewScriptedMockProvider("test-model", "first", "second")

	resp, err := mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "first" {
		t.Errorf("expected 'first', got %q", resp.Content)
	}

	if next := mock.PeekNext(); next != "second" {
		t.Errorf("expected peek 'second', got %q", next)
	}

	resp, err = mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "second" {
		t.Errorf("expected 'second', got %q", resp.Content)
	}

	if _, err := mock.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Errorf("expected exhaustion error")
	}
	if mock.CallCount != 3 {
		t.Errorf("expected 3 calls recorded, got %d", mock.CallCount)
	}
}

func TestFailingMockProvider(t *testing.T) {
	mock := &FailingMockProvider{}
	if _, err := mock.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOllamaChat(t *testing.T) {
	var gotReq ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaResponse{
			Message:         Message{Role: RoleAssistant, Content: "pong"},
			Done:            true,
			EvalCount:       5,
			PromptEvalCount: 7,
		})
	}))
	defer srv.Close()

	p := NewOllama(srv.URL)
	resp, err := p.Chat(context.Background(), ChatRequest{
		Model:     "llama3",
		Messages:  []Message{{Role: RoleUser, Content: "ping"}},
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "pong" {
		t.Errorf("expected 'pong', got %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 12 {
		t.Errorf("expected total tokens 12, got %d", resp.Usage.TotalTokens)
	}
	if gotReq.Stream {
		t.Errorf("expected non-streaming request")
	}
	if gotReq.Options["num_predict"] != float64(64) {
		t.Errorf("expected num_predict option, got %v", gotReq.Options)
	}
}

func TestOllamaChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllama(srv.URL)
	if _, err := p.Chat(context.Background(), ChatRequest{Model: "llama3"}); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestOllamaDefaultBaseURL(t *testing.T) {
	p := NewOllama("")
	if p.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL %q", p.baseURL)
	}
}
