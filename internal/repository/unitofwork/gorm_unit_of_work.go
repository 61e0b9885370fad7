package unitofwork

import (
	"context"
	"errors"
	"fmt"

	"ai-studynotes-be/internal/repository/contract"
	"ai-studynotes-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxActive   = errors.New("transaction already started")
	ErrTxInactive = errors.New("no active transaction")
)

type gormFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormFactory{db: db}
}

func (f *gormFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &gormUnit{db: f.db.WithContext(ctx)}
}

func (f *gormFactory) WithinTransaction(ctx context.Context, fn func(uow UnitOfWork) error) (err error) {
	uow := f.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return uow.Commit()
}

type gormUnit struct {
	db *gorm.DB
	tx *gorm.DB
}

func (u *gormUnit) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxActive
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *gormUnit) Commit() error {
	return u.finish(func(tx *gorm.DB) *gorm.DB { return tx.Commit() })
}

func (u *gormUnit) Rollback() error {
	return u.finish(func(tx *gorm.DB) *gorm.DB { return tx.Rollback() })
}

func (u *gormUnit) finish(end func(*gorm.DB) *gorm.DB) error {
	if u.tx == nil {
		return ErrTxInactive
	}
	tx := u.tx
	u.tx = nil
	return end(tx).Error
}

func (u *gormUnit) StudySetRepository() contract.StudySetRepository {
	if u.tx != nil {
		return implementation.NewStudySetRepository(u.tx)
	}
	return implementation.NewStudySetRepository(u.db)
}
