package llm

import (
	"fmt"

	"circuitsight/internal/config"
)

// New builds the provider selected by configuration.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return NewGemini(&cfg.Gemini)
	case "openai":
		return NewOpenAI(&cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}
