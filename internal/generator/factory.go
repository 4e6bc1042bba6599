package generator

import (
	"context"
	"fmt"
)

// NewLLMFromSettings picks the backend named by settings.Provider.
func NewLLMFromSettings(ctx context.Context, settings LLMSettings) (LLMClient, error) {
	switch settings.Provider {
	case ProviderGemini, "":
		return NewGeminiLLMFromConfig(ctx, &settings)
	case ProviderOpenAI:
		return NewOpenAILLMFromConfig(&settings)
	case ProviderMock:
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", settings.Provider)
	}
}
