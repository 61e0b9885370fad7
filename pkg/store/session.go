package store

import (
	"time"

	"ai-studynotes-be/pkg/flashcard"
	"ai-studynotes-be/pkg/study"
)

// Session is the per-user pipeline cache: the last completed result and the flashcard cursor over its quiz.
// Result and Navigator always describe the same run; they are replaced together.
type Session struct {
	ID        string                `json:"id"`
	SourceRef study.SourceReference `json:"source_ref"`
	Result    *study.PipelineResult `json:"result,omitempty"`
	Navigator flashcard.Navigator   `json:"navigator"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Begin records ref as the source being processed. When it differs from the
// cached source every cached artifact is dropped first. It reports whether state was cleared.
func (s *Session) Begin(ref study.SourceReference) bool {
	if s.SourceRef == ref {
		return false
	}
	s.SourceRef = ref
	s.Result = nil
	s.Navigator = flashcard.Navigator{}
	s.UpdatedAt = time.Now()
	return true
}

// Cached returns the stored result when it was produced for ref.
func (s *Session) Cached(ref study.SourceReference) (*study.PipelineResult, bool) {
	if s.Result == nil || s.Result.SourceRef != ref {
		return nil, false
	}
	return s.Result, true
}

// Commit stores a completed result and puts the cursor back on the first card.
func (s *Session) Commit(result study.PipelineResult) {
	s.SourceRef = result.SourceRef
	s.Result = &result
	s.Navigator = flashcard.New(len(result.Quiz))
	s.UpdatedAt = time.Now()
}

// Clear forgets the source and everything derived from it.
func (s *Session) Clear() {
	s.SourceRef = ""
	s.Result = nil
	s.Navigator = flashcard.Navigator{}
	s.UpdatedAt = time.Now()
}

// Card returns the quiz item under the cursor.
func (s *Session) Card() (study.QuizItem, bool) {
	if s.Result == nil || s.Navigator.Empty() {
		return study.QuizItem{}, false
	}
	idx := s.Navigator.Position() - 1
	if idx < 0 || idx >= len(s.Result.Quiz) {
		return study.QuizItem{}, false
	}
	return s.Result.Quiz[idx], true
}

// Advance moves the cursor; it never leaves the valid range.
func (s *Session) Advance(forward bool) {
	if forward {
		s.Navigator = s.Navigator.Next()
	} else {
		s.Navigator = s.Navigator.Previous()
	}
	s.UpdatedAt = time.Now()
}
