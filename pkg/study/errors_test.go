package study

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsKindAndCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(StageDownload, ErrSourceUnreachable, cause)

	assert.ErrorIs(t, err, ErrSourceUnreachable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrExtractionFailed)

	stage, ok := StageOf(err)
	assert.True(t, ok)
	assert.Equal(t, StageDownload, stage)
	assert.Equal(t, "download: source unreachable: exit status 1", err.Error())
}

func TestWrapDefaultKind(t *testing.T) {
	tests := []struct {
		stage Stage
		want  error
	}{
		{StageDownload, ErrExtractionFailed},
		{StageTranscription, ErrModelFailure},
		{StageGeneration, ErrGenerationFailed},
		{StageNarration, ErrSynthesisFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			err := Wrap(tt.stage, nil, errors.New("boom"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestKindOfSurvivesFmtWrapping(t *testing.T) {
	err := fmt.Errorf("generate: %w", Wrap(StageGeneration, ErrGenerationFailed, nil))
	assert.Equal(t, ErrGenerationFailed, KindOf(err))

	stage, ok := StageOf(err)
	assert.True(t, ok)
	assert.Equal(t, StageGeneration, stage)

	assert.Equal(t, ErrConfiguration, KindOf(fmt.Errorf("load: %w", ErrConfiguration)))
	assert.Nil(t, KindOf(errors.New("plain")))
}
