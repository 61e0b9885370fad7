package study

import (
	"errors"
	"fmt"
)

// Stage names a step of the generation pipeline.
type Stage string

const (
	StageDownload      Stage = "download"
	StageTranscription Stage = "transcription"
	StageGeneration    Stage = "generation"
	StageQuiz          Stage = "quiz"
	StageImage         Stage = "image"
	StageNarration     Stage = "narration"
)

// Failure kinds. Callers match them with errors.Is.
var (
	ErrSourceUnreachable      = errors.New("source unreachable")
	ErrUnsupportedSource      = errors.New("unsupported source")
	ErrExtractionFailed       = errors.New("audio extraction failed")
	ErrUnsupportedAudioFormat = errors.New("unsupported audio format")
	ErrModelFailure           = errors.New("speech model failure")
	ErrGenerationFailed       = errors.New("notes generation failed")
	ErrSynthesisFailed        = errors.New("speech synthesis failed")
	ErrConfiguration          = errors.New("configuration error")
	ErrNoStudySet             = errors.New("no study set for session")
)

// StageError tags a failure with the stage it happened in and its kind.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap builds a StageError. A nil kind falls back to the stage's default kind.
func Wrap(stage Stage, kind error, err error) error {
	if kind == nil {
		kind = defaultKind(stage)
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// Wrapf is Wrap with a formatted cause.
func Wrapf(stage Stage, kind error, format string, args ...any) error {
	return Wrap(stage, kind, fmt.Errorf(format, args...))
}

// StageOf reports the stage a failure happened in.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// KindOf returns the failure kind of err, or nil when err carries none.
func KindOf(err error) error {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	for _, kind := range []error{
		ErrSourceUnreachable, ErrUnsupportedSource, ErrExtractionFailed,
		ErrUnsupportedAudioFormat, ErrModelFailure, ErrGenerationFailed,
		ErrSynthesisFailed, ErrConfiguration, ErrNoStudySet,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func defaultKind(stage Stage) error {
	switch stage {
	case StageDownload:
		return ErrExtractionFailed
	case StageTranscription:
		return ErrModelFailure
	case StageGeneration:
		return ErrGenerationFailed
	case StageNarration:
		return ErrSynthesisFailed
	default:
		return errors.New("stage failure")
	}
}
