package bootstrap

import (
	"fmt"

	"ai-studynotes-be/internal/config"
	"ai-studynotes-be/internal/pkg/logger"
	"ai-studynotes-be/pkg/imagegen"
	"ai-studynotes-be/pkg/llm/factory"
	"ai-studynotes-be/pkg/media"
	"ai-studynotes-be/pkg/notes"
	"ai-studynotes-be/pkg/pipeline"
	"ai-studynotes-be/pkg/study"
	"ai-studynotes-be/pkg/transcribe"
	"ai-studynotes-be/pkg/tts"

	"github.com/prometheus/client_golang/prometheus"
)

// NewPipelineRunner builds the stage chain from configuration. The image stage is
// only wired when a Stability key is present.
func NewPipelineRunner(cfg *config.Config, log logger.ILogger, reg prometheus.Registerer) (*pipeline.Runner, error) {
	llmProvider, err := factory.NewLLMProvider(cfg.LLMSettings())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", study.ErrConfiguration, err)
	}
	log.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	fetcher := media.NewYtDlp(cfg.Media.YtDlpPath, cfg.Media.FFmpegPath, cfg.Media.WorkDir, cfg.Timeouts.Download)
	transcriber := transcribe.NewWhisperCLI(transcribe.Config{
		WhisperBinary: cfg.Media.WhisperPath,
		ModelPath:     cfg.Media.WhisperModelPath,
		Language:      cfg.Media.WhisperLanguage,
		FFmpegBinary:  cfg.Media.FFmpegPath,
		WorkDir:       cfg.Media.WorkDir,
		Timeout:       cfg.Timeouts.Transcribe,
	})
	generator := notes.NewGenerator(llmProvider, cfg.Timeouts.Generation)

	opts := []pipeline.Option{
		pipeline.WithMetrics(pipeline.NewMetrics(reg)),
		pipeline.WithNarrator(tts.NewNarrator(
			tts.NewGoogleTranslateTTS(cfg.Ai.TTSBaseURL),
			cfg.Ai.TTSLanguage,
			cfg.Timeouts.Narration,
		)),
	}
	if cfg.Keys.Stability != "" {
		stability := imagegen.NewStabilityProvider(cfg.Keys.Stability, cfg.Ai.StabilityURL, "")
		opts = append(opts, pipeline.WithIllustrator(imagegen.NewIllustrator(stability, cfg.Timeouts.Image)))
	} else {
		log.Info("BOOTSTRAP", "Image stage disabled, STABILITY_API_KEY not set", nil)
	}

	return pipeline.NewRunner(fetcher, transcriber, generator, log, opts...), nil
}
