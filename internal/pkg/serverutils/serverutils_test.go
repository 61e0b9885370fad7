package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ai-studynotes-be/pkg/study"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"stage failure", study.Wrap(study.StageTranscription, study.ErrModelFailure, errors.New("x")), fiber.StatusBadGateway},
		{"unsupported source", study.Wrap(study.StageDownload, study.ErrUnsupportedSource, nil), fiber.StatusUnprocessableEntity},
		{"no study set", study.ErrNoStudySet, fiber.StatusNotFound},
		{"validation", &ValidationError{Fields: []FieldError{{Field: "SourceRef", Rule: "required"}}}, fiber.StatusBadRequest},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"unknown", errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestErrorHandlerMiddlewareStageBody(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return study.Wrap(study.StageGeneration, study.ErrGenerationFailed, errors.New("quota"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body Response[StageFailure]
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "generation", body.Data.Stage)
	assert.Equal(t, "notes generation failed", body.Data.Kind)
}

type sampleRequest struct {
	SourceRef string `validate:"required,url"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{SourceRef: "https://youtu.be/x"}))

	err := ValidateRequest(sampleRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []FieldError{{Field: "SourceRef", Rule: "required"}}, ve.Fields)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", JwtMiddleware("secret"), func(c *fiber.Ctx) error {
		return c.SendString(SessionID(c))
	})

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", fiber.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.MapClaims{"session_id": "s1", "exp": exp}), fiber.StatusUnauthorized, ""},
		{"session claim", "Bearer " + signed(t, "secret", jwt.MapClaims{"session_id": "s1", "user_id": "u1", "exp": exp}), fiber.StatusOK, "s1"},
		{"user fallback", "Bearer " + signed(t, "secret", jwt.MapClaims{"user_id": "u1", "exp": exp}), fiber.StatusOK, "u1"},
		{"no session", "Bearer " + signed(t, "secret", jwt.MapClaims{"exp": exp}), fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				raw, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(raw))
			}
		})
	}
}
