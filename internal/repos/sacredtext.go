package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

type SacredTextRepo interface {
	Create(ctx context.Context, tx *gorm.DB, texts []*types.SacredText) ([]*types.SacredText, error)
	Search(ctx context.Context, tx *gorm.DB, query, religion, book string, limit int) ([]*types.SacredText, error)
}

type sacredTextRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSacredTextRepo(db *gorm.DB, baseLog *logger.Logger) SacredTextRepo {
	return &sacredTextRepo{db: db, log: baseLog.With("repo", "SacredTextRepo")}
}

func (r *sacredTextRepo) Create(ctx context.Context, tx *gorm.DB, texts []*types.SacredText) ([]*types.SacredText, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(texts) == 0 {
		return []*types.SacredText{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&texts).Error; err != nil {
		return nil, err
	}
	return texts, nil
}

func (r *sacredTextRepo) Search(ctx context.Context, tx *gorm.DB, query, religion, book string, limit int) ([]*types.SacredText, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := transaction.WithContext(ctx).Model(&types.SacredText{}).
		Where("LOWER(text) LIKE ? OR LOWER(keywords) LIKE ?", pattern, pattern)
	if religion != "" {
		q = q.Where("religion = ?", religion)
	}
	if book != "" {
		q = q.Where("book = ?", book)
	}
	var results []*types.SacredText
	if err := q.Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
