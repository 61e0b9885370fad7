package entity

import (
	"time"

	"ai-studynotes-be/pkg/study"

	"github.com/google/uuid"
)

// StudySet is one generated notes document and its quiz, kept as history for a session.
type StudySet struct {
	Id          uuid.UUID
	SessionId   string
	SourceRef   string
	Title       string
	Notes       string
	Quiz        []study.QuizItem
	GeneratedAt time.Time
	CreatedAt   time.Time
}
