package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"ai-studynotes-be/pkg/llm"
)

const (
	DefaultGoogleBaseURL = "https://translate.google.com"
	// maxChunkRunes is the longest text the translate_tts endpoint accepts per request.
	maxChunkRunes = 100
)

// SpeechSynthesizer renders text as MP3 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// GoogleTranslateTTS uses the public translate_tts endpoint. Long text is split into
// short chunks and the returned MP3 frames are concatenated.
type GoogleTranslateTTS struct {
	baseURL string
	client  *http.Client
}

func NewGoogleTranslateTTS(baseURL string) *GoogleTranslateTTS {
	if baseURL == "" {
		baseURL = DefaultGoogleBaseURL
	}
	return &GoogleTranslateTTS{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client timeout: the caller's deadline covers every chunk of a document.
		client: &http.Client{},
	}
}

func (g *GoogleTranslateTTS) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	chunks := SplitText(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, errors.New("nothing to speak")
	}
	if language == "" {
		language = "en"
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		audio, err := g.fetch(ctx, chunk, language, i, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out.Write(audio)
	}
	return out.Bytes(), nil
}

func (g *GoogleTranslateTTS) fetch(ctx context.Context, text, language string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", text)
	q.Set("tl", language)
	q.Set("client", "tw-ob")
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, llm.StatusError("translate_tts", resp.StatusCode, string(body))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty audio chunk")
	}
	return data, nil
}

// SplitText breaks text into chunks of at most limit runes, preferring sentence
// boundaries, then word boundaries. Whitespace-only input yields no chunks.
func SplitText(text string, limit int) []string {
	words := strings.Fields(text)
	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range words {
		w := []rune(word)
		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}
		need := len(w)
		if len(current) > 0 {
			need++
		}
		if len(current)+need > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
		if endsSentence(w) {
			flush()
		}
	}
	flush()
	return chunks
}

func endsSentence(word []rune) bool {
	last := word[len(word)-1]
	return last == ';' || unicode.Is(unicode.Sentence_Terminal, last)
}
