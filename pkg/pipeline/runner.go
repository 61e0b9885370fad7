package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-studynotes-be/internal/pkg/logger"
	"ai-studynotes-be/pkg/imagegen"
	"ai-studynotes-be/pkg/media"
	"ai-studynotes-be/pkg/notes"
	"ai-studynotes-be/pkg/study"
	"ai-studynotes-be/pkg/transcribe"
	"ai-studynotes-be/pkg/tts"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const logModule = "PIPELINE"

// NotesGenerator turns a transcript into a raw notes document.
type NotesGenerator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

// Output is what the mandatory chain produces.
type Output struct {
	Result   study.PipelineResult
	Document notes.Document
	Warnings []string
}

// Extras are the optional artifacts. Absent values are nil; failures never abort the request.
type Extras struct {
	Image        *study.ImageArtifact
	Narration    *study.NarrationAudio
	NarrationErr error
	Warnings     []string
}

// Runner executes MediaFetcher → Transcriber → NotesGenerator → QuizExtractor and the optional stages.
type Runner struct {
	fetcher     media.Retriever
	transcriber transcribe.Transcriber
	generator   NotesGenerator
	illustrator *imagegen.Illustrator
	narrator    *tts.Narrator
	log         logger.ILogger
	metrics     *Metrics
	tracer      trace.Tracer
	now         func() time.Time
}

type Option func(*Runner)

func WithIllustrator(i *imagegen.Illustrator) Option {
	return func(r *Runner) { r.illustrator = i }
}

func WithNarrator(n *tts.Narrator) Option {
	return func(r *Runner) { r.narrator = n }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(
	fetcher media.Retriever,
	transcriber transcribe.Transcriber,
	generator NotesGenerator,
	log logger.ILogger,
	opts ...Option,
) *Runner {
	r := &Runner{
		fetcher:     fetcher,
		transcriber: transcriber,
		generator:   generator,
		log:         log,
		tracer:      otel.Tracer("ai-studynotes-be/pipeline"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.NewNopLogger()
	}
	return r
}

func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run executes the mandatory chain. The first failing stage aborts the run; nothing is retried.
func (r *Runner) Run(ctx context.Context, ref study.SourceReference) (Output, error) {
	var out Output

	var audio study.AudioArtifact
	err := r.stage(ctx, study.StageDownload, func(ctx context.Context) (map[string]interface{}, error) {
		var err error
		audio, err = r.fetcher.Fetch(ctx, ref)
		return map[string]interface{}{"source_ref": ref, "bytes": len(audio.Bytes), "title": audio.Title}, err
	})
	if err != nil {
		return out, err
	}

	var transcript string
	err = r.stage(ctx, study.StageTranscription, func(ctx context.Context) (map[string]interface{}, error) {
		var err error
		transcript, err = r.transcriber.Transcribe(ctx, audio)
		return map[string]interface{}{"format": audio.Format, "chars": len(transcript)}, err
	})
	if err != nil {
		return out, err
	}
	audio.Bytes = nil

	var raw string
	err = r.stage(ctx, study.StageGeneration, func(ctx context.Context) (map[string]interface{}, error) {
		var err error
		raw, err = r.generator.Generate(ctx, transcript)
		return map[string]interface{}{"chars": len(raw)}, err
	})
	if err != nil {
		return out, err
	}

	doc := notes.Parse(raw)
	quiz := doc.Quiz()
	details := map[string]interface{}{"cards": len(quiz.Items), "found": quiz.Found}
	if quiz.Warning != "" {
		details["warning"] = quiz.Warning
		r.log.Warn(logModule, "Quiz block could not be parsed", details)
		out.Warnings = append(out.Warnings, quiz.Warning)
	} else {
		r.log.Info(logModule, "Quiz extracted", details)
	}

	title := audio.Title
	if strings.TrimSpace(title) == "" {
		title = study.UnknownTitle
	}

	out.Document = doc
	out.Result = study.PipelineResult{
		SourceRef:   ref,
		Title:       title,
		Notes:       raw,
		Quiz:        quiz.Items,
		GeneratedAt: r.now().UTC(),
	}
	return out, nil
}

// Enrich runs the optional stages concurrently over a finished result.
func (r *Runner) Enrich(ctx context.Context, result study.PipelineResult, withNarration bool) Extras {
	var (
		extras Extras
		imgErr error
	)
	doc := notes.Parse(result.Notes)

	g, gctx := errgroup.WithContext(ctx)
	if r.illustrator.Enabled() {
		g.Go(func() error {
			extras.Image, imgErr = r.Illustrate(gctx, doc)
			return nil
		})
	}
	if withNarration {
		g.Go(func() error {
			extras.Narration, extras.NarrationErr = r.Narrate(gctx, result.Notes)
			return nil
		})
	}
	_ = g.Wait()

	if imgErr != nil {
		extras.Warnings = append(extras.Warnings, fmt.Sprintf("image unavailable: %v", imgErr))
	}
	if extras.NarrationErr != nil {
		extras.Warnings = append(extras.Warnings, fmt.Sprintf("narration unavailable: %v", extras.NarrationErr))
	}
	return extras
}

// Illustrate draws the summary diagram. Failures are logged as warnings and returned for the caller to report.
func (r *Runner) Illustrate(ctx context.Context, doc notes.Document) (*study.ImageArtifact, error) {
	var img *study.ImageArtifact
	err := r.stage(ctx, study.StageImage, func(ctx context.Context) (map[string]interface{}, error) {
		var err error
		img, err = r.illustrator.Illustrate(ctx, doc)
		return map[string]interface{}{"present": img != nil}, err
	})
	return img, err
}

// Narrate reads notes aloud. It is also used on demand for cached results.
func (r *Runner) Narrate(ctx context.Context, notesText string) (*study.NarrationAudio, error) {
	var audio *study.NarrationAudio
	err := r.stage(ctx, study.StageNarration, func(ctx context.Context) (map[string]interface{}, error) {
		var err error
		audio, err = r.narrator.Narrate(ctx, notesText)
		size := 0
		if audio != nil {
			size = len(audio.Bytes)
		}
		return map[string]interface{}{"bytes": size}, err
	})
	return audio, err
}

// stage wraps one step with a span, a duration metric and start/finish logs.
func (r *Runner) stage(ctx context.Context, stage study.Stage, fn func(ctx context.Context) (map[string]interface{}, error)) error {
	ctx, span := r.tracer.Start(ctx, "pipeline."+string(stage), trace.WithAttributes(attribute.String("stage", string(stage))))
	defer span.End()

	started := time.Now()
	r.log.Debug(logModule, "Stage started", map[string]interface{}{"stage": stage})

	details, err := fn(ctx)
	if details == nil {
		details = map[string]interface{}{}
	}
	details["stage"] = stage
	details["duration_ms"] = time.Since(started).Milliseconds()

	if err != nil && !errors.As(err, new(*study.StageError)) {
		err = study.Wrap(stage, nil, err)
	}
	r.metrics.observe(stage, started, err)

	if err != nil {
		details["error"] = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if stage == study.StageImage || stage == study.StageNarration {
			r.log.Warn(logModule, "Optional stage failed", details)
		} else {
			r.log.Error(logModule, "Stage failed", details)
		}
		return err
	}

	r.log.Info(logModule, "Stage finished", details)
	return nil
}
