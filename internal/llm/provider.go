package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/normregion/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize explains an evaluation in plain language
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Evaluation is the result to explain
	Evaluation model.Evaluation

	// AllowedNumbers is the STRICT allowlist of 4-decimal values the LLM may quote.
	// Any other probability in the response is treated as invented.
	AllowedNumbers []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary string

	// QuotedNumbers are the 4-decimal values the summary contains (for verification)
	QuotedNumbers []string

	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictNumbers rejects summaries quoting values that were not reported
	StrictNumbers bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Timeout:       30,
		StrictNumbers: true,
		MaxTokens:     400,
	}
}

// AllowedNumbers lists every value an evaluation reports, formatted the
// way the report formats them
func AllowedNumbers(eval model.Evaluation) []string {
	var nums []string
	for _, rr := range eval.Regions {
		nums = append(nums, fmt.Sprintf("%.4f", rr.Area))
	}
	if eval.Outcome != nil && eval.Outcome.Kind != model.OutcomeUnclassified {
		nums = append(nums, fmt.Sprintf("%.4f", eval.Outcome.Value))
	}
	return nums
}

// BuildPrompt constructs the default prompt with strict number mode
func BuildPrompt(eval model.Evaluation, allowed []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are explaining the output of a normal-distribution region calculator to a non-statistician.

CRITICAL RULES:
1. You MUST ONLY quote probabilities from this list (4 decimal places):
%s

2. DO NOT compute, round, or invent any other probability, and do not restate values as percentages.
3. Explain what each region selects and what the combined value means.
4. Never recommend decisions; only describe the numbers.

Evaluation:
- Distribution: normal, mean %g, standard deviation %g
`, joinNumbers(allowed), eval.Distribution.Mean, eval.Distribution.StdDev)

	for _, rr := range eval.Regions {
		fmt.Fprintf(&sb, "- Region %d: X %s %g, probability %.4f\n", rr.Index, rr.Region.Direction, rr.Region.Limit, rr.Area)
	}
	if eval.Outcome != nil {
		fmt.Fprintf(&sb, "- Relationship: %s\n", eval.Outcome.String())
	}

	sb.WriteString("\nProvide a 2-3 sentence explanation.")

	return sb.String()
}

func joinNumbers(nums []string) string {
	if len(nums) == 0 {
		return "(No values available)"
	}
	var sb strings.Builder
	for _, n := range nums {
		fmt.Fprintf(&sb, "\n- %s", n)
	}
	return sb.String()
}
