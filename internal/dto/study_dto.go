package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type GenerateStudySetRequest struct {
	SourceRef string `json:"source_ref" validate:"required,url"`
	Refresh   bool   `json:"refresh"`
}

// Normalize trims SourceRef in place and returns it; the trimmed value is the cache key.
func (r *GenerateStudySetRequest) Normalize() string {
	r.SourceRef = strings.TrimSpace(r.SourceRef)
	return r.SourceRef
}

type QuizItemDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FlashcardResponse struct {
	Card        *QuizItemDTO `json:"card"`
	Position    int          `json:"position"` // 1-based, 0 when there are no cards
	Total       int          `json:"total"`
	CanNext     bool         `json:"can_next"`
	CanPrevious bool         `json:"can_previous"`
}

type StudySetResponse struct {
	SourceRef   string            `json:"source_ref"`
	Title       string            `json:"title"`
	Notes       string            `json:"notes"`
	StudyNotes  string            `json:"study_notes"`
	Quiz        []QuizItemDTO     `json:"quiz"`
	GeneratedAt time.Time         `json:"generated_at"`
	Flashcard   FlashcardResponse `json:"flashcard"`
}

// MediaDTO carries a binary artifact inline as base64.
type MediaDTO struct {
	MimeType string `json:"mime_type"`
	Base64   string `json:"base64"`
}

type GenerateStudySetResponse struct {
	StudySetResponse
	Reused         bool      `json:"reused"`
	Image          *MediaDTO `json:"image"`
	Narration      *MediaDTO `json:"narration"`
	NarrationError string    `json:"narration_error,omitempty"`
	Warnings       []string  `json:"warnings"`
}

type StudySetHistoryResponse struct {
	Id          uuid.UUID     `json:"id"`
	SourceRef   string        `json:"source_ref"`
	Title       string        `json:"title"`
	Notes       string        `json:"notes"`
	Quiz        []QuizItemDTO `json:"quiz"`
	GeneratedAt time.Time     `json:"generated_at"`
}

type StudySetHistoryListResponse struct {
	Total int64                      `json:"total"`
	Items []*StudySetHistoryResponse `json:"items"`
}

// StudySetGeneratedMessage is published on the in-process topic after a run is committed.
type StudySetGeneratedMessage struct {
	SessionId   string        `json:"session_id"`
	SourceRef   string        `json:"source_ref"`
	Title       string        `json:"title"`
	Notes       string        `json:"notes"`
	Quiz        []QuizItemDTO `json:"quiz"`
	GeneratedAt time.Time     `json:"generated_at"`
}
