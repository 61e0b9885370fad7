package notes

import (
	"context"
	"strings"
	"time"

	"ai-studynotes-be/internal/constant"
	"ai-studynotes-be/pkg/llm"
	"ai-studynotes-be/pkg/study"
)

// Generator turns a transcript into a raw notes document through a generative-text provider.
// It does not check that the model followed the section contract; Parse and ExtractQuiz are tolerant.
type Generator struct {
	provider llm.LLMProvider
	timeout  time.Duration
}

func NewGenerator(provider llm.LLMProvider, timeout time.Duration) *Generator {
	return &Generator{provider: provider, timeout: timeout}
}

// BuildPrompt is the single instruction+transcript prompt sent to the provider.
func BuildPrompt(transcript string) string {
	return constant.NotesInstructionPromptV1 + constant.NotesTranscriptSeparator + transcript
}

func (g *Generator) Generate(ctx context.Context, transcript string) (string, error) {
	if g.provider == nil {
		return "", study.Wrapf(study.StageGeneration, study.ErrGenerationFailed, "no text generation provider configured")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.provider.Generate(ctx, BuildPrompt(transcript), llm.WithTemperature(0.4))
	if err != nil {
		return "", study.Wrap(study.StageGeneration, study.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", study.Wrapf(study.StageGeneration, study.ErrGenerationFailed, "empty response from model")
	}
	return text, nil
}
