package factory

import (
	"fmt"

	"docs-assistant-be/pkg/llm"
	"docs-assistant-be/pkg/llm/echo"
	"docs-assistant-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewProvider(baseURL, modelName), nil
	case "echo":
		return echo.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
