package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/normregion/internal/model"
)

var (
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM explanation of the result")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// applyLLMFlags switches the explanation on when --llm is given
func applyLLMFlags(cmd *cobra.Command, cfg *model.Config) error {
	if !llmEnabled {
		return nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.StrictNumbers = true // Always enforce

	switch llmProvider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
		if !cmd.Flags().Changed("llm-model") {
			cfg.LLM.Model = "" // provider default
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", llmProvider)
	}

	return nil
}
