package imagegen

import (
	"context"
	"fmt"
	"time"

	"ai-studynotes-be/internal/constant"
	"ai-studynotes-be/pkg/notes"
	"ai-studynotes-be/pkg/study"
)

// Illustrator draws one diagram for a notes document from its summary.
type Illustrator struct {
	generator ImageGenerator
	timeout   time.Duration
}

// NewIllustrator accepts a nil generator; Illustrate then always reports absence.
func NewIllustrator(generator ImageGenerator, timeout time.Duration) *Illustrator {
	return &Illustrator{generator: generator, timeout: timeout}
}

func (i *Illustrator) Enabled() bool {
	return i != nil && i.generator != nil
}

// Prompt builds the image prompt, or "" when the notes have no summary prose.
func Prompt(doc notes.Document) string {
	excerpt := doc.SummaryExcerpt()
	if excerpt == "" {
		return ""
	}
	return fmt.Sprintf(constant.ImagePromptTemplate, excerpt)
}

// Illustrate returns nil without error when there is nothing to draw or no generator is configured.
// Failures are returned tagged with the image stage; callers treat them as non-fatal.
func (i *Illustrator) Illustrate(ctx context.Context, doc notes.Document) (*study.ImageArtifact, error) {
	if !i.Enabled() {
		return nil, nil
	}
	prompt := Prompt(doc)
	if prompt == "" {
		return nil, nil
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	img, err := i.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, study.Wrap(study.StageImage, study.ErrSynthesisFailed, err)
	}
	return &img, nil
}
