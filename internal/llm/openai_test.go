package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/normregion/internal/model"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}

		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1677652288,
			Model:   "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 80},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func sampleEvaluation() model.Evaluation {
	return model.Evaluation{
		Distribution: model.Distribution{Family: "normal", Mean: 0, StdDev: 1},
		Regions: []model.RegionResult{
			{Index: 1, Region: model.Region{Limit: 1, Direction: model.AtMost}, Area: 0.841344746},
			{Index: 2, Region: model.Region{Limit: 0, Direction: model.AtLeast}, Area: 0.5},
		},
		Outcome: &model.Outcome{Kind: model.OutcomeOverlap, Value: 0.341344746, Rule: "overlap"},
	}
}

func TestOpenAIProvider_Summarize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var body openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.Messages) != 2 || !strings.Contains(body.Messages[1].Content, "0.3413") {
			t.Errorf("prompt should carry the reported values: %+v", body.Messages)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "About 0.3413 of outcomes fall in both regions."}},
			},
			Usage: openai.Usage{TotalTokens: 100},
		})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		Model:         "gpt-4o-mini",
		Timeout:       5,
		StrictNumbers: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	eval := sampleEvaluation()
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		Evaluation:     eval,
		AllowedNumbers: AllowedNumbers(eval),
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if resp.Summary != "About 0.3413 of outcomes fall in both regions." {
		t.Errorf("Unexpected summary: %s", resp.Summary)
	}
	if len(resp.QuotedNumbers) != 1 || resp.QuotedNumbers[0] != "0.3413" {
		t.Errorf("Unexpected quoted numbers: %v", resp.QuotedNumbers)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Summarize_NumberLeak(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		leak  string
	}{
		{"four decimals", "The overlap is 0.4200, which is large.", "0.4200"},
		{"five decimals", "The overlap is 0.34134.", "0.34134"},
		{"six decimals", "About 0.123456 of outcomes qualify.", "0.123456"},
		{"three decimals", "About 0.999 of outcomes qualify.", "0.999"},
		{"percentage", "Roughly 34.13% fall in both regions.", "34.13%"},
		{"whole percentage", "Roughly 34% fall in both regions.", "34%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := chatServer(t, tt.reply)
			defer server.Close()

			provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5, StrictNumbers: true})

			eval := sampleEvaluation()
			_, err := provider.Summarize(context.Background(), SummarizeRequest{
				Evaluation:     eval,
				AllowedNumbers: AllowedNumbers(eval),
			})
			if err == nil || !strings.Contains(err.Error(), "NUMBER LEAK") || !strings.Contains(err.Error(), tt.leak) {
				t.Fatalf("Expected NUMBER LEAK for %s, got %v", tt.leak, err)
			}
		})
	}
}

func TestOpenAIProvider_Summarize_InputValuesAllowed(t *testing.T) {
	server := chatServer(t, "With mean 2.5 and standard deviation 0.75, the region X <= 1.25 has 0.0478.")
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5, StrictNumbers: true})

	eval := model.Evaluation{
		Distribution: model.Distribution{Family: "normal", Mean: 2.5, StdDev: 0.75},
		Regions: []model.RegionResult{
			{Index: 1, Region: model.Region{Limit: 1.25, Direction: model.AtMost}, Area: 0.0478},
		},
	}
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		Evaluation:     eval,
		AllowedNumbers: AllowedNumbers(eval),
	})
	if err != nil {
		t.Fatalf("Quoting the inputs should be allowed, got %v", err)
	}
	if len(resp.QuotedNumbers) != 4 {
		t.Errorf("Expected 4 quoted numbers, got %v", resp.QuotedNumbers)
	}
}

func TestOpenAIProvider_Summarize_LenientMode(t *testing.T) {
	server := chatServer(t, "Roughly 0.4200 overlaps.")
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5, StrictNumbers: false})

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Evaluation: sampleEvaluation()})
	if err != nil {
		t.Fatalf("Expected no error in lenient mode, got %v", err)
	}
	if len(resp.QuotedNumbers) != 1 {
		t.Errorf("Expected quoted number to be recorded, got %v", resp.QuotedNumbers)
	}
}

func TestOpenAIProvider_Summarize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Summarize(context.Background(), SummarizeRequest{Evaluation: sampleEvaluation()}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIProvider_Summarize_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{Model: "gpt-4o-mini"})
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5})
	if _, err := provider.Summarize(context.Background(), SummarizeRequest{Evaluation: sampleEvaluation()}); err == nil {
		t.Fatal("Expected error for empty choices, got nil")
	}
}

func TestOpenAIProvider_Summarize_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := provider.Summarize(ctx, SummarizeRequest{Evaluation: sampleEvaluation()}); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() && r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	healthy.Store(false)
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	p, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %s", p.Name())
	}
	if p.config.Model == "" {
		t.Error("Expected a default model")
	}
}

func TestExtractNumbers(t *testing.T) {
	got := extractNumbers("Values 0.3413 and 0.5000, again 0.3413; also 0.34134, 0.123456, 0.999, .5 and 34.13% or 12% but not 7.")
	want := []string{"0.3413", "0.5000", "0.34134", "0.123456", "0.999", ".5", "34.13%", "12%"}

	if len(got) != len(want) {
		t.Fatalf("extractNumbers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extractNumbers[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
