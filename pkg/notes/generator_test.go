package notes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-studynotes-be/pkg/llm"
	"ai-studynotes-be/pkg/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply  string
	err    error
	prompt string
	opts   llm.Options
	wait   bool
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, history[len(history)-1].Content, options...)
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompt = prompt
	s.opts = llm.Apply(llm.Options{}, options...)
	if s.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

func TestGeneratorSendsInstructionAndTranscript(t *testing.T) {
	provider := &stubProvider{reply: photosynthesisNotes}
	gen := NewGenerator(provider, time.Minute)

	out, err := gen.Generate(context.Background(), "plants use light to make sugar")
	require.NoError(t, err)

	assert.Equal(t, photosynthesisNotes, out)
	assert.True(t, strings.HasSuffix(provider.prompt, "Here is the transcript:\nplants use light to make sugar"))
	assert.Contains(t, provider.prompt, "## Quiz Yourself!")
	assert.Equal(t, 0.4, provider.opts.Temperature)
}

func TestGeneratorFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.LLMProvider
	}{
		{"no provider", nil},
		{"provider error", &stubProvider{err: errors.New("quota exceeded")}},
		{"blank reply", &stubProvider{reply: "  \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.provider, 0).Generate(context.Background(), "text")
			require.Error(t, err)
			assert.ErrorIs(t, err, study.ErrGenerationFailed)

			stage, ok := study.StageOf(err)
			assert.True(t, ok)
			assert.Equal(t, study.StageGeneration, stage)
		})
	}
}

func TestGeneratorTimeout(t *testing.T) {
	gen := NewGenerator(&stubProvider{wait: true}, 10*time.Millisecond)

	_, err := gen.Generate(context.Background(), "text")
	assert.ErrorIs(t, err, study.ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
