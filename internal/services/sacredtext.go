package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

type SacredTextService interface {
	Search(ctx context.Context, query, religion, book string, limit int) ([]*types.SacredText, error)
	Import(ctx context.Context, texts []*types.SacredText) (int, error)
}

type sacredTextService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.SacredTextRepo
}

func NewSacredTextService(db *gorm.DB, log *logger.Logger, repo repos.SacredTextRepo) SacredTextService {
	return &sacredTextService{
		db:   db,
		log:  log.With("service", "SacredTextService"),
		repo: repo,
	}
}

func (s *sacredTextService) Search(ctx context.Context, query, religion, book string, limit int) ([]*types.SacredText, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.Search(ctx, nil, query, religion, book, limit)
}

// Import bulk-loads verses, skipping rows missing required fields.
func (s *sacredTextService) Import(ctx context.Context, texts []*types.SacredText) (int, error) {
	var valid []*types.SacredText
	for _, t := range texts {
		if t.Religion == "" || t.Book == "" || t.Text == "" {
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.repo.Create(ctx, tx, valid)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Sacred texts imported", "count", len(valid), "skipped", len(texts)-len(valid))
	return len(valid), nil
}
