package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

// ContentRef identifies the completed content; exactly one field is set.
type ContentRef struct {
	LessonID       *uuid.UUID
	ChapterID      *uuid.UUID
	CustomLessonID *uuid.UUID
}

func (cr ContentRef) Valid() bool {
	n := 0
	if cr.LessonID != nil {
		n++
	}
	if cr.ChapterID != nil {
		n++
	}
	if cr.CustomLessonID != nil {
		n++
	}
	return n == 1
}

type ReligionCount struct {
	Religion  string
	Count     int64
	AvgRating *float64
}

type DifficultyCount struct {
	Difficulty string
	Count      int64
}

type ProgressAggregates struct {
	TotalCompleted int64
	TotalTimeSpent int64
	AvgRating      *float64
}

type ProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserProgress) ([]*types.UserProgress, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error
	GetByUserAndRef(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref ContentRef) (*types.UserProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error)
	Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserProgress, error)
	CompletedLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	CompletionTimestamps(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error)
	CountSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
	Aggregates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (ProgressAggregates, error)
	ReligionCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]ReligionCount, error)
	DifficultyCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]DifficultyCount, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserProgress) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.UserProgress{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *progressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *progressRepo) GetByUserAndRef(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ref ContentRef) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case ref.LessonID != nil:
		q = q.Where("lesson_id = ?", *ref.LessonID)
	case ref.ChapterID != nil:
		q = q.Where("chapter_id = ?", *ref.ChapterID)
	case ref.CustomLessonID != nil:
		q = q.Where("custom_lesson_id = ?", *ref.CustomLessonID)
	default:
		return nil, nil
	}
	var row types.UserProgress
	err := q.First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *progressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 5
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) CompletedLessonIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND lesson_id IS NOT NULL", userID).
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *progressRepo) CompletionTimestamps(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stamps []time.Time
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ?", userID).
		Order("completed_at").
		Pluck("completed_at", &stamps).Error; err != nil {
		return nil, err
	}
	return stamps, nil
}

func (r *progressRepo) CountSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ? AND completed_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *progressRepo) Aggregates(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (ProgressAggregates, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var agg ProgressAggregates
	row := struct {
		TotalCompleted int64
		TotalTimeSpent int64
		AvgRating      *float64
	}{}
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Select("COUNT(*) AS total_completed, COALESCE(SUM(time_spent), 0) AS total_time_spent, AVG(rating) AS avg_rating").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return agg, err
	}
	agg.TotalCompleted = row.TotalCompleted
	agg.TotalTimeSpent = row.TotalTimeSpent
	agg.AvgRating = row.AvgRating
	return agg, nil
}

func (r *progressRepo) ReligionCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]ReligionCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []ReligionCount
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Select("lesson.religion AS religion, COUNT(user_progress.id) AS count, AVG(user_progress.rating) AS avg_rating").
		Joins("JOIN lesson ON lesson.id = user_progress.lesson_id").
		Where("user_progress.user_id = ?", userID).
		Group("lesson.religion").
		Order("count DESC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) DifficultyCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]DifficultyCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []DifficultyCount
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Select("lesson.difficulty AS difficulty, COUNT(user_progress.id) AS count").
		Joins("JOIN lesson ON lesson.id = user_progress.lesson_id").
		Where("user_progress.user_id = ?", userID).
		Group("lesson.difficulty").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
