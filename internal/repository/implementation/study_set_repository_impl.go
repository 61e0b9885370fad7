package implementation

import (
	"context"
	"errors"

	"ai-studynotes-be/internal/entity"
	"ai-studynotes-be/internal/mapper"
	"ai-studynotes-be/internal/model"
	"ai-studynotes-be/internal/repository/contract"
	"ai-studynotes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type StudySetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudySetMapper
}

func NewStudySetRepository(db *gorm.DB) contract.StudySetRepository {
	return &StudySetRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudySetMapper(),
	}
}

func (r *StudySetRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StudySetRepositoryImpl) Create(ctx context.Context, set *entity.StudySet) error {
	m := r.mapper.ToModel(set)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*set = *r.mapper.ToEntity(m)
	return nil
}

func (r *StudySetRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudySet, error) {
	var m model.StudySet
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StudySetRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudySet, error) {
	var models []*model.StudySet
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StudySetRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.StudySet{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StudySetRepositoryImpl) PruneSession(ctx context.Context, sessionId string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	newest := r.db.WithContext(ctx).
		Model(&model.StudySet{}).
		Select("id").
		Where("session_id = ?", sessionId).
		Order("generated_at DESC").
		Limit(keep)

	res := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Where("id NOT IN (?)", newest).
		Delete(&model.StudySet{})
	return res.RowsAffected, res.Error
}

func (r *StudySetRepositoryImpl) DeleteBySession(ctx context.Context, sessionId string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.StudySet{}).Error
}
