package factory

import (
	"fmt"
	"strings"

	"ai-studynotes-be/pkg/llm"
	"ai-studynotes-be/pkg/llm/gemini"
	"ai-studynotes-be/pkg/llm/huggingface"
	"ai-studynotes-be/pkg/llm/ollama"
)

const (
	ProviderGemini      = "gemini"
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
)

// Settings selects and configures one text generation backend.
type Settings struct {
	Provider          string
	Model             string
	OllamaBaseURL     string
	GeminiAPIKey      string
	HuggingFaceAPIKey string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch strings.ToLower(s.Provider) {
	case ProviderGemini, "":
		if strings.TrimSpace(s.GeminiAPIKey) == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(s.GeminiAPIKey, "", s.Model), nil
	case ProviderOllama:
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	case ProviderHuggingFace:
		if strings.TrimSpace(s.HuggingFaceAPIKey) == "" {
			return nil, fmt.Errorf("huggingface provider requires HUGGINGFACE_API_KEY")
		}
		return huggingface.NewHuggingFaceProvider(s.HuggingFaceAPIKey, "", s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
