package unitofwork

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/model"
	"ai-studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StudySet{}))
	return db
}

func studySet(session string) *entity.StudySet {
	return &entity.StudySet{
		Id:          uuid.New(),
		SessionId:   session,
		SourceRef:   "https://example.com/v",
		Title:       "Cells",
		Notes:       "## Title: Cells",
		GeneratedAt: time.Now(),
	}
}

func TestWithinTransactionCommits(t *testing.T) {
	ctx := context.Background()
	f := NewRepositoryFactory(newTestDB(t))

	err := f.WithinTransaction(ctx, func(uow UnitOfWork) error {
		return uow.StudySetRepository().Create(ctx, studySet("s1"))
	})
	require.NoError(t, err)

	count, err := f.NewUnitOfWork(ctx).StudySetRepository().Count(ctx, specification.BySessionId{SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	f := NewRepositoryFactory(newTestDB(t))
	boom := errors.New("boom")

	err := f.WithinTransaction(ctx, func(uow UnitOfWork) error {
		require.NoError(t, uow.StudySetRepository().Create(ctx, studySet("s1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := f.NewUnitOfWork(ctx).StudySetRepository().Count(ctx, specification.BySessionId{SessionId: "s1"})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnitStateErrors(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(newTestDB(t)).NewUnitOfWork(ctx)

	assert.ErrorIs(t, uow.Commit(), ErrTxInactive)
	require.NoError(t, uow.Begin(ctx))
	assert.ErrorIs(t, uow.Begin(ctx), ErrTxActive)
	require.NoError(t, uow.Rollback())
	assert.ErrorIs(t, uow.Rollback(), ErrTxInactive)
}
