package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

type LessonFilter struct {
	Religion   string
	Difficulty string
}

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error)
	List(ctx context.Context, tx *gorm.DB, filter LessonFilter) ([]*types.Lesson, error)
	Search(ctx context.Context, tx *gorm.DB, query, religion string) ([]*types.Lesson, error)
	// NextInSequence returns the oldest lesson of the same religion created
	// after the given one at the same difficulty, falling back to the first
	// lesson of the next difficulty.
	NextInSequence(ctx context.Context, tx *gorm.DB, current *types.Lesson) (*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
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

func (r *lessonRepo) List(ctx context.Context, tx *gorm.DB, filter LessonFilter) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Lesson{})
	if filter.Religion != "" {
		q = q.Where("religion = ?", filter.Religion)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	var results []*types.Lesson
	if err := q.Order("created_at").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) Search(ctx context.Context, tx *gorm.DB, query, religion string) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := transaction.WithContext(ctx).Model(&types.Lesson{}).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	if religion != "" {
		q = q.Where("religion = ?", religion)
	}
	var results []*types.Lesson
	if err := q.Order("created_at").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) NextInSequence(ctx context.Context, tx *gorm.DB, current *types.Lesson) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if current == nil {
		return nil, nil
	}

	var next types.Lesson
	err := transaction.WithContext(ctx).
		Where("religion = ? AND difficulty = ? AND created_at > ?", current.Religion, current.Difficulty, current.CreatedAt).
		Order("created_at").
		First(&next).Error
	if err == nil {
		return &next, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	nextDifficulty := types.NextDifficulty(current.Difficulty)
	if nextDifficulty == "" {
		return nil, nil
	}
	err = transaction.WithContext(ctx).
		Where("religion = ? AND difficulty = ?", current.Religion, nextDifficulty).
		Order("created_at").
		First(&next).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}
