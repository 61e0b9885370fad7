package implementation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/model"
	"ai-studynotes-be/internal/repository/specification"
	"ai-studynotes-be/pkg/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StudySet{}))
	return db
}

func seed(t *testing.T, repo interface {
	Create(context.Context, *entity.StudySet) error
}, session string, n int) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		set := &entity.StudySet{
			SessionId:   session,
			SourceRef:   fmt.Sprintf("https://v/%d", i),
			Title:       fmt.Sprintf("Video %d", i),
			Notes:       "## Title",
			Quiz:        []study.QuizItem{{Question: "q", Answer: "a"}},
			GeneratedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), set))
	}
}

func TestStudySetCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewStudySetRepository(newTestDB(t))

	set := &entity.StudySet{
		SessionId:   "s1",
		SourceRef:   "https://youtu.be/abc",
		Title:       "Photosynthesis",
		Notes:       "## Title: Powered by Sunlight",
		Quiz:        []study.QuizItem{{Question: "What does photosynthesis convert?", Answer: "Light into chemical energy"}},
		GeneratedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, set))
	assert.NotEmpty(t, set.Id)

	got, err := repo.FindOne(ctx, specification.BySessionId{SessionId: "s1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, set.Id, got.Id)
	assert.Equal(t, set.Quiz, got.Quiz)

	missing, err := repo.FindOne(ctx, specification.BySessionId{SessionId: "nobody"})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStudySetHistoryOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewStudySetRepository(newTestDB(t))
	seed(t, repo, "s1", 4)
	seed(t, repo, "s2", 1)

	sets, err := repo.FindAll(ctx,
		specification.BySessionId{SessionId: "s1"},
		specification.NewestFirst{},
		specification.Pagination{Limit: 2},
	)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "Video 3", sets[0].Title)
	assert.Equal(t, "Video 2", sets[1].Title)

	count, err := repo.Count(ctx, specification.BySessionId{SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestStudySetPruneSession(t *testing.T) {
	ctx := context.Background()
	repo := NewStudySetRepository(newTestDB(t))
	seed(t, repo, "s1", 5)
	seed(t, repo, "s2", 2)

	deleted, err := repo.PruneSession(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	sets, err := repo.FindAll(ctx, specification.BySessionId{SessionId: "s1"}, specification.NewestFirst{})
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "Video 4", sets[0].Title)

	other, _ := repo.Count(ctx, specification.BySessionId{SessionId: "s2"})
	assert.Equal(t, int64(2), other)

	require.NoError(t, repo.DeleteBySession(ctx, "s2"))
	other, _ = repo.Count(ctx, specification.BySessionId{SessionId: "s2"})
	assert.Zero(t, other)
}
