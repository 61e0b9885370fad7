package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-studynotes-be/internal/dto"
	"ai-studynotes-be/internal/pkg/serverutils"
	"ai-studynotes-be/pkg/study"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeStudyService struct {
	sessionId string
	req       *dto.GenerateStudySetRequest
	limit     int
	err       error
}

func (f *fakeStudyService) Generate(_ context.Context, sessionId string, req *dto.GenerateStudySetRequest) (*dto.GenerateStudySetResponse, error) {
	f.sessionId, f.req = sessionId, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.GenerateStudySetResponse{
		StudySetResponse: dto.StudySetResponse{SourceRef: req.SourceRef, Title: "Inside the Cell"},
		Warnings:         []string{},
	}, nil
}

func (f *fakeStudyService) Current(_ context.Context, sessionId string) (*dto.StudySetResponse, error) {
	f.sessionId = sessionId
	return nil, study.ErrNoStudySet
}

func (f *fakeStudyService) Clear(_ context.Context, sessionId string) error {
	f.sessionId = sessionId
	return nil
}

func (f *fakeStudyService) Flashcard(context.Context, string) (*dto.FlashcardResponse, error) {
	return &dto.FlashcardResponse{Position: 1, Total: 3, CanNext: true}, nil
}

func (f *fakeStudyService) Next(context.Context, string) (*dto.FlashcardResponse, error) {
	return &dto.FlashcardResponse{Position: 2, Total: 3, CanNext: true, CanPrevious: true}, nil
}

func (f *fakeStudyService) Previous(context.Context, string) (*dto.FlashcardResponse, error) {
	return &dto.FlashcardResponse{Position: 1, Total: 3, CanNext: true}, nil
}

func (f *fakeStudyService) Narration(context.Context, string) (*study.NarrationAudio, error) {
	return &study.NarrationAudio{Bytes: []byte("mp3"), MimeType: "audio/mpeg"}, nil
}

func (f *fakeStudyService) History(_ context.Context, _ string, limit int) (*dto.StudySetHistoryListResponse, error) {
	f.limit = limit
	return &dto.StudySetHistoryListResponse{Items: []*dto.StudySetHistoryResponse{}}, nil
}

func (f *fakeStudyService) HistoryItem(_ context.Context, _ string, id uuid.UUID) (*dto.StudySetHistoryResponse, error) {
	return nil, study.ErrNoStudySet
}

func (f *fakeStudyService) ClearHistory(context.Context, string) error {
	return f.err
}

func newTestApp(svc *fakeStudyService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewStudyController(svc, testSecret).RegisterRoutes(app.Group("/api"))
	return app
}

func request(t *testing.T, app *fiber.App, method, target, body string) (int, []byte, string) {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"session_id": "s1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw, resp.Header.Get("Content-Type")
}

func TestGenerateRoute(t *testing.T) {
	svc := &fakeStudyService{}
	app := newTestApp(svc)

	code, raw, _ := request(t, app, "POST", "/api/study/v1/generate", `{"source_ref":"https://youtu.be/abc","refresh":true}`)
	require.Equal(t, fiber.StatusOK, code)

	var body serverutils.Response[dto.GenerateStudySetResponse]
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Inside the Cell", body.Data.Title)
	assert.Equal(t, "s1", svc.sessionId)
	assert.True(t, svc.req.Refresh)
}

func TestGenerateRouteTrimsSourceRef(t *testing.T) {
	svc := &fakeStudyService{}
	app := newTestApp(svc)

	code, _, _ := request(t, app, "POST", "/api/study/v1/generate", `{"source_ref":"  https://youtu.be/abc  "}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "https://youtu.be/abc", svc.req.SourceRef)

	code, _, _ = request(t, app, "POST", "/api/study/v1/generate", `{"source_ref":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGenerateRouteErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"missing source", `{}`, nil, fiber.StatusBadRequest},
		{"not a url", `{"source_ref":"video"}`, nil, fiber.StatusBadRequest},
		{"broken json", `{`, nil, fiber.StatusBadRequest},
		{"unsupported", `{"source_ref":"ftp://x/y"}`, study.Wrap(study.StageDownload, study.ErrUnsupportedSource, nil), fiber.StatusUnprocessableEntity},
		{"stage failure", `{"source_ref":"https://youtu.be/abc"}`, study.Wrap(study.StageTranscription, study.ErrModelFailure, nil), fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeStudyService{err: tt.err})
			code, _, _ := request(t, app, "POST", "/api/study/v1/generate", tt.body)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestStudyRoutes(t *testing.T) {
	svc := &fakeStudyService{}
	app := newTestApp(svc)

	code, _, _ := request(t, app, "GET", "/api/study/v1", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _, _ = request(t, app, "DELETE", "/api/study/v1", "")
	assert.Equal(t, fiber.StatusOK, code)

	code, raw, _ := request(t, app, "POST", "/api/study/v1/flashcard/next", "")
	require.Equal(t, fiber.StatusOK, code)
	var card serverutils.Response[dto.FlashcardResponse]
	require.NoError(t, json.Unmarshal(raw, &card))
	assert.Equal(t, 2, card.Data.Position)

	code, raw, contentType := request(t, app, "GET", "/api/study/v1/narration", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "audio/mpeg", contentType)
	assert.Equal(t, []byte("mp3"), raw)

	code, _, _ = request(t, app, "GET", "/api/study/v1/history?limit=7", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 7, svc.limit)

	code, _, _ = request(t, app, "GET", "/api/study/v1/history/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _, _ = request(t, app, "GET", "/api/study/v1/history/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _, _ = request(t, app, "DELETE", "/api/study/v1/history", "")
	assert.Equal(t, fiber.StatusOK, code)
}

func TestStudyRoutesRequireToken(t *testing.T) {
	app := newTestApp(&fakeStudyService{})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/study/v1/flashcard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
