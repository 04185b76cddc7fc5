package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

// ChatbotReply is one assistant turn plus the verses surfaced for it.
type ChatbotReply struct {
	Session *types.ChatbotSession `json:"session"`
	Message string                `json:"message"`
	Verses  []*types.SacredText   `json:"verses,omitempty"`
}

type ChatbotService interface {
	// StartSession opens a spiritual-guide conversation around a concern and
	// returns the opening guidance with relevant verses.
	StartSession(ctx context.Context, userID uuid.UUID, concern, religion string) (*ChatbotReply, error)
	ContinueSession(ctx context.Context, userID, sessionID uuid.UUID, message string) (*ChatbotReply, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.ChatbotSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ChatbotSession, error)
}

type chatbotService struct {
	db             *gorm.DB
	log            *logger.Logger
	ai             OpenAIClient
	sessionRepo    repos.ChatbotSessionRepo
	sacredTextRepo repos.SacredTextRepo
	userRepo       repos.UserRepo
}

func NewChatbotService(
	db *gorm.DB,
	log *logger.Logger,
	ai OpenAIClient,
	sessionRepo repos.ChatbotSessionRepo,
	sacredTextRepo repos.SacredTextRepo,
	userRepo repos.UserRepo,
) ChatbotService {
	return &chatbotService{
		db:             db,
		log:            log.With("service", "ChatbotService"),
		ai:             ai,
		sessionRepo:    sessionRepo,
		sacredTextRepo: sacredTextRepo,
		userRepo:       userRepo,
	}
}

const chatbotSystemPrompt = "You are a compassionate spiritual guide grounded in %s. " +
	"Listen, comfort, and offer perspective drawn from that tradition's teachings. " +
	"You are not a therapist; for crisis situations gently suggest professional help. " +
	"Keep replies under 200 words."

func (s *chatbotService) StartSession(ctx context.Context, userID uuid.UUID, concern, religion string) (*ChatbotReply, error) {
	concern = strings.TrimSpace(concern)
	if concern == "" {
		return nil, ErrInvalidRequest
	}
	if religion == "" {
		users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, ErrNotFound
		}
		religion = users[0].Religion
	}
	if religion == "" {
		return nil, fmt.Errorf("no religion set for guidance session")
	}

	verses, err := s.sacredTextRepo.Search(ctx, nil, concern, religion, "", 3)
	if err != nil {
		s.log.Warn("Verse lookup failed", "error", err)
		verses = nil
	}

	userTurn := concern
	if len(verses) > 0 {
		var refs []string
		for _, v := range verses {
			refs = append(refs, fmt.Sprintf("%s %s:%s - %q", v.Book, v.Chapter, v.Verse, v.Text))
		}
		userTurn = fmt.Sprintf("%s\n\nVerses you may draw on:\n%s", concern, strings.Join(refs, "\n"))
	}

	messages := []ChatMessage{
		{Role: "system", Content: fmt.Sprintf(chatbotSystemPrompt, religion)},
		{Role: "user", Content: userTurn},
	}
	reply, err := s.ai.Chat(ctx, messages, 500)
	if err != nil {
		return nil, fmt.Errorf("guidance generation failed: %w", err)
	}
	reply = strings.TrimSpace(reply)

	history := []ChatMessage{
		{Role: "user", Content: concern},
		{Role: "assistant", Content: reply},
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	session := &types.ChatbotSession{
		ID:                  uuid.New(),
		UserID:              userID,
		SessionTitle:        sessionTitle(concern),
		InitialConcern:      concern,
		Religion:            religion,
		ConversationHistory: datatypes.JSON(historyJSON),
	}
	if len(verses) > 0 {
		if raw, err := json.Marshal(verses); err == nil {
			session.RecommendedVerses = datatypes.JSON(raw)
		}
	}
	if _, err := s.sessionRepo.Create(ctx, nil, []*types.ChatbotSession{session}); err != nil {
		return nil, err
	}

	s.log.Info("Guidance session started",
		"user_id", userID.String(),
		"session_id", session.ID.String(),
		"religion", religion,
	)
	return &ChatbotReply{Session: session, Message: reply, Verses: verses}, nil
}

func (s *chatbotService) ContinueSession(ctx context.Context, userID, sessionID uuid.UUID, message string) (*ChatbotReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrInvalidRequest
	}

	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	var history []ChatMessage
	if len(session.ConversationHistory) > 0 {
		if err := json.Unmarshal(session.ConversationHistory, &history); err != nil {
			s.log.Warn("Discarding unreadable conversation history", "session_id", sessionID.String())
			history = nil
		}
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: fmt.Sprintf(chatbotSystemPrompt, session.Religion)})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	reply, err := s.ai.Chat(ctx, messages, 500)
	if err != nil {
		return nil, fmt.Errorf("guidance generation failed: %w", err)
	}
	reply = strings.TrimSpace(reply)

	history = append(history, ChatMessage{Role: "user", Content: message}, ChatMessage{Role: "assistant", Content: reply})
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	session.ConversationHistory = datatypes.JSON(historyJSON)
	if err := s.sessionRepo.Save(ctx, nil, session); err != nil {
		return nil, err
	}

	return &ChatbotReply{Session: session, Message: reply}, nil
}

func (s *chatbotService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.ChatbotSession, error) {
	sessions, err := s.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 || sessions[0].UserID != userID {
		return nil, ErrNotFound
	}
	return sessions[0], nil
}

func (s *chatbotService) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ChatbotSession, error) {
	return s.sessionRepo.ListByUser(ctx, nil, userID, limit)
}

func sessionTitle(concern string) string {
	const max = 60
	title := strings.TrimSpace(concern)
	if len(title) > max {
		title = strings.TrimSpace(title[:max]) + "..."
	}
	return title
}
