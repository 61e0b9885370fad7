package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-studynotes-be/pkg/llm"
	"ai-studynotes-be/pkg/study"
)

const (
	DefaultStabilityBaseURL = "https://api.stability.ai"
	DefaultStabilityEngine  = "stable-diffusion-v1-6"
)

// ImageGenerator renders a text prompt into an image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (study.ImageArtifact, error)
}

// StabilityProvider calls Stability AI's v1 text-to-image endpoint.
type StabilityProvider struct {
	apiKey  string
	baseURL string
	engine  string
	client  *http.Client
}

func NewStabilityProvider(apiKey, baseURL, engine string) *StabilityProvider {
	if baseURL == "" {
		baseURL = DefaultStabilityBaseURL
	}
	if engine == "" {
		engine = DefaultStabilityEngine
	}
	return &StabilityProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		engine:  engine,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type textPrompt struct {
	Text string `json:"text"`
}

type textToImageRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	Samples     int          `json:"samples"`
}

type textToImageResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

func (p *StabilityProvider) GenerateImage(ctx context.Context, prompt string) (study.ImageArtifact, error) {
	var out study.ImageArtifact
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return out, errors.New("image prompt required")
	}

	body, err := json.Marshal(textToImageRequest{TextPrompts: []textPrompt{{Text: prompt}}, Samples: 1})
	if err != nil {
		return out, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", p.baseURL, p.engine)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("stability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return out, llm.StatusError("stability", resp.StatusCode, string(raw))
	}

	var decoded textToImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Artifacts) == 0 {
		return out, errors.New("no image returned")
	}
	artifact := decoded.Artifacts[0]
	if artifact.FinishReason == "CONTENT_FILTERED" {
		return out, errors.New("image rejected by content filter")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(artifact.Base64))
	if err != nil || len(raw) == 0 {
		return out, fmt.Errorf("decode image base64: %w", err)
	}
	out.Bytes = raw
	out.MimeType = "image/png"
	return out, nil
}
