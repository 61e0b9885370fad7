package mapper

import (
	"encoding/json"

	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/model"
	"ai-studynotes-be/pkg/study"

	"gorm.io/datatypes"
)

type StudySetMapper struct{}

func NewStudySetMapper() *StudySetMapper {
	return &StudySetMapper{}
}

func (m *StudySetMapper) ToEntity(s *model.StudySet) *entity.StudySet {
	if s == nil {
		return nil
	}

	quiz := []study.QuizItem{}
	if len(s.Quiz) > 0 {
		// Rows are only written by ToModel; a decode failure leaves the quiz empty.
		_ = json.Unmarshal(s.Quiz, &quiz)
	}

	return &entity.StudySet{
		Id:          s.Id,
		SessionId:   s.SessionId,
		SourceRef:   s.SourceRef,
		Title:       s.Title,
		Notes:       s.Notes,
		Quiz:        quiz,
		GeneratedAt: s.GeneratedAt,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *StudySetMapper) ToModel(s *entity.StudySet) *model.StudySet {
	if s == nil {
		return nil
	}

	quiz := s.Quiz
	if quiz == nil {
		quiz = []study.QuizItem{}
	}
	raw, err := json.Marshal(quiz)
	if err != nil {
		raw = []byte("[]")
	}

	return &model.StudySet{
		Id:          s.Id,
		SessionId:   s.SessionId,
		SourceRef:   s.SourceRef,
		Title:       s.Title,
		Notes:       s.Notes,
		Quiz:        datatypes.JSON(raw),
		CardCount:   len(quiz),
		GeneratedAt: s.GeneratedAt,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *StudySetMapper) ToEntities(sets []*model.StudySet) []*entity.StudySet {
	entities := make([]*entity.StudySet, len(sets))
	for i, s := range sets {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
