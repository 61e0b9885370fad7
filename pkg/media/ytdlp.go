package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-studynotes-be/pkg/study"
)

const (
	DefaultYtDlpBinary = "yt-dlp"
	audioFormat        = "mp3"
	audioStem          = "audio"
	titleFile          = "title.txt"
)

// Retriever turns a source reference into audio bytes.
type Retriever interface {
	Fetch(ctx context.Context, ref study.SourceReference) (study.AudioArtifact, error)
}

// YtDlp downloads the best audio stream of a video page with yt-dlp and converts it to mp3.
// Every call works in its own temporary directory that is removed before Fetch returns.
type YtDlp struct {
	binary         string
	ffmpegLocation string
	workDir        string
	timeout        time.Duration
	run            CommandRunner
}

func NewYtDlp(binary, ffmpegLocation, workDir string, timeout time.Duration) *YtDlp {
	if binary == "" {
		binary = DefaultYtDlpBinary
	}
	return &YtDlp{
		binary:         binary,
		ffmpegLocation: ffmpegLocation,
		workDir:        workDir,
		timeout:        timeout,
		run:            ExecRunner,
	}
}

// WithCommandRunner replaces the process runner (for testing).
func (y *YtDlp) WithCommandRunner(r CommandRunner) *YtDlp {
	if r != nil {
		y.run = r
	}
	return y
}

func (y *YtDlp) Fetch(ctx context.Context, ref study.SourceReference) (study.AudioArtifact, error) {
	ref = strings.TrimSpace(ref)
	if err := ValidateSource(ref); err != nil {
		return study.AudioArtifact{}, err
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp(y.workDir, "fetch-*")
	if err != nil {
		return study.AudioArtifact{}, study.Wrapf(study.StageDownload, study.ErrExtractionFailed, "create work dir: %v", err)
	}
	defer os.RemoveAll(dir)

	output, err := y.run(ctx, y.binary, y.buildArgs(ref, dir)...)
	if err != nil {
		return study.AudioArtifact{}, study.Wrap(study.StageDownload, classifyFailure(ctx, output, err), err)
	}

	audioPath, err := findAudio(dir)
	if err != nil {
		return study.AudioArtifact{}, study.Wrap(study.StageDownload, study.ErrExtractionFailed, err)
	}
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return study.AudioArtifact{}, study.Wrap(study.StageDownload, study.ErrExtractionFailed, err)
	}
	if len(data) == 0 {
		return study.AudioArtifact{}, study.Wrapf(study.StageDownload, study.ErrExtractionFailed, "downloaded audio is empty")
	}

	return study.AudioArtifact{
		Bytes:  data,
		Title:  readTitle(filepath.Join(dir, titleFile)),
		Format: strings.TrimPrefix(filepath.Ext(audioPath), "."),
	}, nil
}

func (y *YtDlp) buildArgs(ref, dir string) []string {
	args := []string{
		"--no-playlist",
		"--no-progress",
		"-f", "bestaudio/best",
		"-x", "--audio-format", audioFormat,
		"-o", filepath.Join(dir, audioStem+".%(ext)s"),
		"--print-to-file", "after_move:title", filepath.Join(dir, titleFile),
	}
	if y.ffmpegLocation != "" {
		args = append(args, "--ffmpeg-location", y.ffmpegLocation)
	}
	return append(args, "--", ref)
}

// ValidateSource accepts absolute http(s) URLs with a host.
func ValidateSource(ref study.SourceReference) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return study.Wrapf(study.StageDownload, study.ErrUnsupportedSource, "source reference is empty")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return study.Wrap(study.StageDownload, study.ErrUnsupportedSource, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return study.Wrapf(study.StageDownload, study.ErrUnsupportedSource, "%q is not an http(s) url", ref)
	}
	return nil
}

var (
	unsupportedMarkers = []string{"unsupported url", "is not a valid url", "no video formats found"}
	unreachableMarkers = []string{
		"http error", "unable to download", "failed to resolve", "name resolution",
		"name or service not known", "connection refused", "connection reset",
		"timed out", "network is unreachable", "video unavailable", "private video",
		"this video is not available", "sign in to confirm",
	}
)

// classifyFailure maps yt-dlp diagnostics to a failure kind.
func classifyFailure(ctx context.Context, output []byte, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return study.ErrSourceUnreachable
	}
	text := strings.ToLower(string(output) + " " + err.Error())
	for _, m := range unsupportedMarkers {
		if strings.Contains(text, m) {
			return study.ErrUnsupportedSource
		}
	}
	for _, m := range unreachableMarkers {
		if strings.Contains(text, m) {
			return study.ErrSourceUnreachable
		}
	}
	return study.ErrExtractionFailed
}

func findAudio(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, audioStem+".*"))
	if err != nil {
		return "", err
	}
	preferred := filepath.Join(dir, audioStem+"."+audioFormat)
	for _, m := range matches {
		if m == preferred {
			return m, nil
		}
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, nil
		}
	}
	return "", fmt.Errorf("no audio file produced")
}

func readTitle(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return study.UnknownTitle
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if title := strings.TrimSpace(lines[0]); title != "" && title != "NA" {
		return title
	}
	return study.UnknownTitle
}
