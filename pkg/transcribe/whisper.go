package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ai-studynotes-be/pkg/media"
	"ai-studynotes-be/pkg/study"
)

const (
	DefaultWhisperBinary = "whisper-cli"
	DefaultFFmpegBinary  = "ffmpeg"
	sampleRate           = "16000"
	beamSize             = "5"
)

// Transcriber converts audio into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio study.AudioArtifact) (string, error)
}

// Config selects the whisper.cpp binary and model.
type Config struct {
	WhisperBinary string
	ModelPath     string
	Language      string // "auto" detects the spoken language
	FFmpegBinary  string
	WorkDir       string
	Timeout       time.Duration
}

// WhisperCLI transcribes with whisper.cpp. Audio is first normalised to 16kHz mono PCM with ffmpeg.
type WhisperCLI struct {
	cfg Config
	run media.CommandRunner
}

func NewWhisperCLI(cfg Config) *WhisperCLI {
	if cfg.WhisperBinary == "" {
		cfg.WhisperBinary = DefaultWhisperBinary
	}
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = DefaultFFmpegBinary
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	return &WhisperCLI{cfg: cfg, run: media.ExecRunner}
}

// WithCommandRunner replaces the process runner (for testing).
func (w *WhisperCLI) WithCommandRunner(r media.CommandRunner) *WhisperCLI {
	if r != nil {
		w.run = r
	}
	return w
}

// Model returns the configured model path for logging.
func (w *WhisperCLI) Model() string {
	return w.cfg.ModelPath
}

func (w *WhisperCLI) Transcribe(ctx context.Context, audio study.AudioArtifact) (string, error) {
	format := SniffFormat(audio.Bytes)
	if format == "" {
		return "", study.Wrapf(study.StageTranscription, study.ErrUnsupportedAudioFormat,
			"unrecognised audio container (%d bytes, declared %q)", len(audio.Bytes), audio.Format)
	}

	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp(w.cfg.WorkDir, "transcribe-*")
	if err != nil {
		return "", study.Wrapf(study.StageTranscription, study.ErrModelFailure, "create work dir: %v", err)
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "input."+format)
	if err := os.WriteFile(source, audio.Bytes, 0o600); err != nil {
		return "", study.Wrap(study.StageTranscription, study.ErrModelFailure, err)
	}

	wav := filepath.Join(dir, "audio.wav")
	if _, err := w.run(ctx, w.cfg.FFmpegBinary, buildFFmpegArgs(source, wav)...); err != nil {
		if ctx.Err() != nil {
			return "", study.Wrap(study.StageTranscription, study.ErrModelFailure, err)
		}
		return "", study.Wrap(study.StageTranscription, study.ErrUnsupportedAudioFormat, err)
	}

	outBase := filepath.Join(dir, "transcript")
	if _, err := w.run(ctx, w.cfg.WhisperBinary, w.buildArgs(wav, outBase)...); err != nil {
		return "", study.Wrap(study.StageTranscription, study.ErrModelFailure, err)
	}

	text, err := loadTranscript(outBase + ".json")
	if err != nil {
		return "", study.Wrap(study.StageTranscription, study.ErrModelFailure, err)
	}
	if text == "" {
		return "", study.Wrapf(study.StageTranscription, study.ErrModelFailure, "no speech recognized")
	}
	return text, nil
}

func buildFFmpegArgs(source, dest string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", source,
		"-vn", "-ar", sampleRate, "-ac", "1", "-c:a", "pcm_s16le",
		dest,
	}
}

func (w *WhisperCLI) buildArgs(wav, outBase string) []string {
	return []string{
		"-m", w.cfg.ModelPath,
		"-f", wav,
		"-l", w.cfg.Language,
		"-bs", beamSize,
		"-oj",
		"-of", outBase,
		"-np",
	}
}

type segment struct {
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
	Text string `json:"text"`
}

type whisperPayload struct {
	Transcription []segment `json:"transcription"`
}

// loadTranscript joins whisper.cpp JSON segments in time order.
func loadTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return ParseTranscript(data)
}

// ParseTranscript reads whisper.cpp's -oj output into plain text.
func ParseTranscript(data []byte) (string, error) {
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("parse whisper json: %w", err)
	}

	segments := payload.Transcription
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Offsets.From < segments[j].Offsets.From
	})

	// Segments carry their own spacing; whisper may split a word across two.
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(seg.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
