package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

type ChatbotSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.ChatbotSession) ([]*types.ChatbotSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChatbotSession, error)
	Save(ctx context.Context, tx *gorm.DB, session *types.ChatbotSession) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.ChatbotSession, error)
}

type chatbotSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatbotSessionRepo(db *gorm.DB, baseLog *logger.Logger) ChatbotSessionRepo {
	return &chatbotSessionRepo{db: db, log: baseLog.With("repo", "ChatbotSessionRepo")}
}

func (r *chatbotSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.ChatbotSession) ([]*types.ChatbotSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sessions) == 0 {
		return []*types.ChatbotSession{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *chatbotSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ChatbotSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ChatbotSession
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

func (r *chatbotSessionRepo) Save(ctx context.Context, tx *gorm.DB, session *types.ChatbotSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if session == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(session).Error
}

func (r *chatbotSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.ChatbotSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 10
	}
	var results []*types.ChatbotSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
