package unitofwork

import "context"

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
	// WithinTransaction runs fn in one transaction, rolling back when fn fails.
	WithinTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error
}
