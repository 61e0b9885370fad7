package tts

import (
	"context"
	"strings"
	"time"

	"ai-studynotes-be/pkg/study"
)

// markupStripper removes the markdown emphasis and heading characters that would be read aloud.
var markupStripper = strings.NewReplacer("#", "", "*", "", "`", "")

// Narrator reads a notes document aloud.
type Narrator struct {
	synth    SpeechSynthesizer
	language string
	timeout  time.Duration
}

func NewNarrator(synth SpeechSynthesizer, language string, timeout time.Duration) *Narrator {
	if language == "" {
		language = "en"
	}
	return &Narrator{synth: synth, language: language, timeout: timeout}
}

// SpeakableText strips markup from notes text.
func SpeakableText(notes string) string {
	return strings.TrimSpace(markupStripper.Replace(notes))
}

func (n *Narrator) Narrate(ctx context.Context, notes string) (*study.NarrationAudio, error) {
	if n == nil || n.synth == nil {
		return nil, study.Wrapf(study.StageNarration, study.ErrSynthesisFailed, "no speech synthesizer configured")
	}
	text := SpeakableText(notes)
	if text == "" {
		return nil, study.Wrapf(study.StageNarration, study.ErrSynthesisFailed, "notes contain no speakable text")
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	audio, err := n.synth.Synthesize(ctx, text, n.language)
	if err != nil {
		return nil, study.Wrap(study.StageNarration, study.ErrSynthesisFailed, err)
	}
	if len(audio) == 0 {
		return nil, study.Wrapf(study.StageNarration, study.ErrSynthesisFailed, "synthesizer returned no audio")
	}
	return &study.NarrationAudio{Bytes: audio, MimeType: "audio/mpeg"}, nil
}
