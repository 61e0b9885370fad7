package factory

import (
	"testing"

	"ai-studynotes-be/pkg/llm/gemini"
	"ai-studynotes-be/pkg/llm/huggingface"
	"ai-studynotes-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		check    func(t *testing.T, p any)
		wantErr  string
	}{
		{
			name:     "gemini default",
			settings: Settings{GeminiAPIKey: "g"},
			check:    func(t *testing.T, p any) { assert.IsType(t, &gemini.GeminiProvider{}, p) },
		},
		{
			name:     "ollama without key",
			settings: Settings{Provider: "OLLAMA", Model: "gemma:2b"},
			check: func(t *testing.T, p any) {
				o, ok := p.(*ollama.OllamaProvider)
				require.True(t, ok)
				assert.Equal(t, "http://localhost:11434", o.BaseURL)
			},
		},
		{
			name:     "huggingface",
			settings: Settings{Provider: ProviderHuggingFace, HuggingFaceAPIKey: "h"},
			check:    func(t *testing.T, p any) { assert.IsType(t, &huggingface.HuggingFaceProvider{}, p) },
		},
		{name: "gemini missing key", settings: Settings{Provider: ProviderGemini}, wantErr: "GOOGLE_GEMINI_API_KEY"},
		{name: "huggingface missing key", settings: Settings{Provider: ProviderHuggingFace}, wantErr: "HUGGINGFACE_API_KEY"},
		{name: "unknown", settings: Settings{Provider: "openai"}, wantErr: "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.settings)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}
