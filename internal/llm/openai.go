package llm

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/normregion/internal/model"
)

// defaultOllamaURL is Ollama's OpenAI-compatible endpoint
const defaultOllamaURL = "http://localhost:11434/v1"

// OpenAIProvider implements the Provider interface for OpenAI-compatible APIs
type OpenAIProvider struct {
	name   string
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		name:   "openai",
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// NewOllamaProvider talks to a local Ollama server through its
// OpenAI-compatible API. No API key is needed.
func NewOllamaProvider(config Config) (*OpenAIProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if config.Model == "" {
		config.Model = "llama3.2"
	}

	clientConfig := openai.DefaultConfig("ollama")
	clientConfig.BaseURL = baseURL

	return &OpenAIProvider{
		name:   "ollama",
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Simple check: try to list models (lightweight API call)
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s API check failed: %v\n", p.name, err)
		return false
	}
	return true
}

// Summarize generates an explanation using the Chat Completions API
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Evaluation, req.AllowedNumbers)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 400
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You explain probability results precisely and never introduce numbers that were not given to you.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	quoted := extractNumbers(summary)

	// CRITICAL: verify strict number mode
	if p.config.StrictNumbers {
		if n, leaked := unreportedNumber(quoted, req.AllowedNumbers, req.Evaluation); leaked {
			return nil, fmt.Errorf("NUMBER LEAK: LLM quoted a value that was not reported: %s", n)
		}
	}

	return &SummarizeResponse{
		Summary:       summary,
		QuotedNumbers: quoted,
		Model:         modelName,
		TokensUsed:    resp.Usage.TotalTokens,
	}, nil
}

// numberPattern matches decimals of any precision and percentages
var numberPattern = regexp.MustCompile(`\d*\.\d+%?|\d+%`)

// extractNumbers finds the distinct decimal and percentage values in text
func extractNumbers(text string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, n := range numberPattern.FindAllString(text, -1) {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	return unique
}

// unreportedNumber returns the first quoted value that is neither in the
// allowlist nor numerically equal to one of the evaluation's inputs
func unreportedNumber(quoted, allowed []string, eval model.Evaluation) (string, bool) {
	inputs := []float64{eval.Distribution.Mean, eval.Distribution.StdDev}
	for _, rr := range eval.Regions {
		inputs = append(inputs, rr.Region.Limit)
	}

	for _, n := range quoted {
		if slices.Contains(allowed, n) {
			continue
		}
		if v, err := strconv.ParseFloat(n, 64); err == nil && slices.Contains(inputs, v) {
			continue
		}
		return n, true
	}
	return "", false
}
