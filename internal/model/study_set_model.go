package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudySet struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId   string         `gorm:"type:varchar(255);not null;index:idx_study_sets_session_generated,priority:1"`
	SourceRef   string         `gorm:"type:text;not null"`
	Title       string         `gorm:"type:varchar(512);not null"`
	Notes       string         `gorm:"type:text;not null"`
	Quiz        datatypes.JSON `gorm:"not null"`
	CardCount   int            `gorm:"not null;default:0"`
	GeneratedAt time.Time      `gorm:"not null;index:idx_study_sets_session_generated,priority:2"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (StudySet) TableName() string {
	return "study_sets"
}

func (s *StudySet) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}
