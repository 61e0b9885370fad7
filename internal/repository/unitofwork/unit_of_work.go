package unitofwork

import (
	"context"

	"ai-studynotes-be/internal/repository/contract"
)

// UnitOfWork scopes repositories to one transaction. Repositories taken
// before Begin run outside it.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StudySetRepository() contract.StudySetRepository
}
