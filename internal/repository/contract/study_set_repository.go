package contract

import (
	"context"

	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/repository/specification"
)

type StudySetRepository interface {
	Create(ctx context.Context, set *entity.StudySet) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudySet, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudySet, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// PruneSession keeps the newest keep sets of a session and deletes the rest.
	PruneSession(ctx context.Context, sessionId string, keep int) (int64, error)
	DeleteBySession(ctx context.Context, sessionId string) error
}
