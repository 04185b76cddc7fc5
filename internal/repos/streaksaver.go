package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

type StreakSaverRepo interface {
	Create(ctx context.Context, tx *gorm.DB, savers []*types.StreakSaver) ([]*types.StreakSaver, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StreakSaver, error)
	CountUnused(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// OldestUnused is the deterministic pick for consumption: earliest
	// purchased_at first.
	OldestUnused(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StreakSaver, error)
	// MarkUsed flips is_used exactly once; returns false when the row was
	// already consumed by a concurrent caller.
	MarkUsed(ctx context.Context, tx *gorm.DB, saverID uuid.UUID, usedAt time.Time) (bool, error)
	// UsedSince reports whether any saver was consumed at or after since.
	UsedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (bool, error)
}

type streakSaverRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakSaverRepo(db *gorm.DB, baseLog *logger.Logger) StreakSaverRepo {
	return &streakSaverRepo{db: db, log: baseLog.With("repo", "StreakSaverRepo")}
}

func (r *streakSaverRepo) Create(ctx context.Context, tx *gorm.DB, savers []*types.StreakSaver) ([]*types.StreakSaver, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(savers) == 0 {
		return []*types.StreakSaver{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&savers).Error; err != nil {
		return nil, err
	}
	return savers, nil
}

func (r *streakSaverRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StreakSaver, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StreakSaver
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *streakSaverRepo) CountUnused(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StreakSaver{}).
		Where("user_id = ? AND is_used = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *streakSaverRepo) OldestUnused(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StreakSaver, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var saver types.StreakSaver
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND is_used = ?", userID, false).
		Order("purchased_at").
		First(&saver).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saver, nil
}

func (r *streakSaverRepo) MarkUsed(ctx context.Context, tx *gorm.DB, saverID uuid.UUID, usedAt time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.StreakSaver{}).
		Where("id = ? AND is_used = ?", saverID, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": usedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *streakSaverRepo) UsedSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StreakSaver{}).
		Where("user_id = ? AND is_used = ? AND used_at >= ?", userID, true, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
