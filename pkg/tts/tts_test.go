package tts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-studynotes-be/pkg/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"blank", "  \n\t ", 10, nil},
		{"fits", "Plants need light", 100, []string{"Plants need light"}},
		{"sentences", "One. Two! Three", 100, []string{"One.", "Two!", "Three"}},
		{"word wrap", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"runes", "ééé ééé", 3, []string{"ééé", "ééé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitText(tt.text, tt.limit))
		})
	}
}

func TestGoogleTranslateTTSConcatenatesChunks(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_tts", r.URL.Path)
		assert.Equal(t, "tw-ob", r.URL.Query().Get("client"))
		assert.Equal(t, "de", r.URL.Query().Get("tl"))
		queries = append(queries, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte("[" + r.URL.Query().Get("idx") + "]"))
	}))
	defer srv.Close()

	audio, err := NewGoogleTranslateTTS(srv.URL).Synthesize(context.Background(), "Erster Satz. Zweiter Satz.", "de")
	require.NoError(t, err)

	assert.Equal(t, []string{"Erster Satz.", "Zweiter Satz."}, queries)
	assert.Equal(t, "[0][1]", string(audio))
}

func TestGoogleTranslateTTSFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewGoogleTranslateTTS(srv.URL).Synthesize(context.Background(), "hello", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")

	_, err = NewGoogleTranslateTTS(srv.URL).Synthesize(context.Background(), "   ", "en")
	assert.Error(t, err)
}

type stubSynth struct {
	text string
	lang string
	out  []byte
	err  error
}

func (s *stubSynth) Synthesize(_ context.Context, text, language string) ([]byte, error) {
	s.text, s.lang = text, language
	return s.out, s.err
}

func TestGoogleTranslateTTSUsesCallerDeadline(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		select {
		case <-time.After(40 * time.Millisecond):
			_, _ = w.Write([]byte("ID3"))
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	g := NewGoogleTranslateTTS(srv.URL)
	assert.Zero(t, g.client.Timeout)

	text := strings.Repeat("Chlorophyll absorbs red and blue light in the leaf. ", 8)
	audio, err := g.Synthesize(context.Background(), text, "en")
	require.NoError(t, err)
	assert.NotEmpty(t, audio)
	mu.Lock()
	assert.Greater(t, requests, 2)
	mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = g.Synthesize(ctx, text, "en")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNarrateStripsMarkup(t *testing.T) {
	synth := &stubSynth{out: []byte("mp3")}
	audio, err := NewNarrator(synth, "", time.Second).Narrate(context.Background(), "## Title\n**Bold** and `code`")
	require.NoError(t, err)

	assert.Equal(t, "Title\nBold and code", synth.text)
	assert.Equal(t, "en", synth.lang)
	assert.Equal(t, "audio/mpeg", audio.MimeType)
	assert.Equal(t, []byte("mp3"), audio.Bytes)
}

func TestNarrateFailures(t *testing.T) {
	tests := []struct {
		name  string
		synth SpeechSynthesizer
		notes string
	}{
		{"no synthesizer", nil, "text"},
		{"only markup", &stubSynth{out: []byte("x")}, "## ** `` #"},
		{"synth error", &stubSynth{err: errors.New("offline")}, "text"},
		{"no audio", &stubSynth{}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audio, err := NewNarrator(tt.synth, "en", 0).Narrate(context.Background(), tt.notes)
			assert.Nil(t, audio)
			assert.ErrorIs(t, err, study.ErrSynthesisFailed)
			stage, _ := study.StageOf(err)
			assert.Equal(t, study.StageNarration, stage)
		})
	}
}

func TestSpeakableText(t *testing.T) {
	assert.Equal(t, "Key Takeaways\n- light", SpeakableText("## Key Takeaways\n- **light**"))
	assert.Empty(t, strings.TrimSpace(SpeakableText("###")))
}
