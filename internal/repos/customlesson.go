package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

type CustomLessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.CustomLesson) ([]*types.CustomLesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CustomLesson, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CustomLesson, error)
}

type customLessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomLessonRepo(db *gorm.DB, baseLog *logger.Logger) CustomLessonRepo {
	return &customLessonRepo{db: db, log: baseLog.With("repo", "CustomLessonRepo")}
}

func (r *customLessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.CustomLesson) ([]*types.CustomLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lessons) == 0 {
		return []*types.CustomLesson{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *customLessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CustomLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CustomLesson
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *customLessonRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CustomLesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CustomLesson
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
