package factory

import (
	"fmt"

	"github.com/katnyeung/beans-finder-sub000/pkg/llm"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm/gemini"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm/huggingface"
	"github.com/katnyeung/beans-finder-sub000/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, geminiKey, huggingFaceKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(geminiKey, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(huggingFaceKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
