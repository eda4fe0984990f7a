package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/normregion/internal/model"
)

// Summarizer produces optional explanations of evaluations.
// It runs after all values are computed and can never change them.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; an empty provider disables it
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name or ""
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary explains eval. Provider failures are reported as
// warnings on the returned summary rather than as errors.
func (s *Summarizer) GenerateSummary(ctx context.Context, eval model.Evaluation) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Warnings: []string{fmt.Sprintf("LLM provider %s is not available", s.provider.Name())},
		}, nil
	}

	allowed := AllowedNumbers(eval)
	summary := &model.LLMSummary{
		Enabled:       true,
		Provider:      s.provider.Name(),
		Model:         s.config.Model,
		StrictNumbers: s.config.StrictNumbers,
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Evaluation:     eval,
		AllowedNumbers: allowed,
		Model:          s.config.Model,
		MaxTokens:      s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings,
		fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
		fmt.Sprintf("Verified %d quoted values", len(resp.QuotedNumbers)),
	)

	return summary, nil
}

// RenderSeparateMarkdown renders the explanation as its own document
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("# LLM Explanation\n\n")
	sb.WriteString("> GENERATED CONTENT. The areas and the relationship value were computed\n")
	sb.WriteString("> independently of this text and are not affected by it.\n\n")
	fmt.Fprintf(&sb, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&sb, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&sb, "- **Strict Number Mode:** %t\n\n", summary.StrictNumbers)

	if summary.SummaryMD == "" {
		sb.WriteString("_No explanation generated._\n")
	} else {
		sb.WriteString(summary.SummaryMD)
		sb.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		sb.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}

	return sb.String()
}
