package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
)

// OnboardingStep is one turn of the onboarding conversation. When Complete is
// true, Profile holds everything the conversation established.
type OnboardingStep struct {
	Message  string         `json:"message"`
	Complete bool           `json:"complete"`
	Profile  *ProfileUpdate `json:"profile,omitempty"`
}

type OnboardingService interface {
	// NextStep drives the conversational onboarding. History alternates
	// user/assistant turns; userMessage is the newest user turn. A nil
	// userID skips profile persistence (pre-registration flow).
	NextStep(ctx context.Context, userID *uuid.UUID, history []ChatMessage, userMessage string) (*OnboardingStep, error)
}

type onboardingService struct {
	db          *gorm.DB
	log         *logger.Logger
	ai          OpenAIClient
	userService UserService
	userRepo    repos.UserRepo
}

func NewOnboardingService(db *gorm.DB, log *logger.Logger, ai OpenAIClient, userService UserService, userRepo repos.UserRepo) OnboardingService {
	return &onboardingService{
		db:          db,
		log:         log.With("service", "OnboardingService"),
		ai:          ai,
		userService: userService,
		userRepo:    userRepo,
	}
}

const onboardingSystemPrompt = "You are the warm, concise onboarding guide for a religious-education app. " +
	"Learn four things through natural conversation, one question at a time: " +
	"(1) whether the person practices a religion or is curious about several, " +
	"(2) which tradition, if any (islam, christianity, or hinduism), " +
	"(3) what they hope to get out of studying, " +
	"(4) how they prefer to learn (reading, stories, practice, discussion). " +
	"When you have all four, reply with ONLY a JSON object: " +
	`{"is_complete": true, "message": "<short closing message>", "user_data": ` +
	`{"persona": "curious"|"practitioner", "religion": "<tradition or empty>", ` +
	`"goals": "<their goals>", "learning_style": "<their style>"}}. ` +
	"Until then, reply with plain conversational text only."

func (s *onboardingService) NextStep(ctx context.Context, userID *uuid.UUID, history []ChatMessage, userMessage string) (*OnboardingStep, error) {
	if strings.TrimSpace(userMessage) == "" && len(history) > 0 {
		return nil, ErrInvalidRequest
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: onboardingSystemPrompt})
	messages = append(messages, history...)
	if strings.TrimSpace(userMessage) != "" {
		messages = append(messages, ChatMessage{Role: "user", Content: userMessage})
	} else {
		messages = append(messages, ChatMessage{Role: "user", Content: "Hi, I'd like to get started."})
	}

	reply, err := s.ai.Chat(ctx, messages, 400)
	if err != nil {
		return nil, fmt.Errorf("onboarding step failed: %w", err)
	}

	doc, ok := ExtractLooseJSON(reply)
	if !ok || !boolField(doc, "is_complete") {
		return &OnboardingStep{Message: strings.TrimSpace(reply)}, nil
	}

	step := &OnboardingStep{
		Message:  stringField(doc, "message"),
		Complete: true,
	}
	if step.Message == "" {
		step.Message = "You're all set. Welcome!"
	}

	userData, _ := doc["user_data"].(map[string]any)
	if userData != nil {
		profile := &ProfileUpdate{}
		if v := stringField(userData, "persona"); v != "" {
			profile.Persona = &v
		}
		if v := stringField(userData, "religion"); v != "" {
			religion := strings.ToLower(v)
			profile.Religion = &religion
		}
		if v := stringField(userData, "goals"); v != "" {
			profile.Goals = &v
		}
		if v := stringField(userData, "learning_style"); v != "" {
			profile.LearningStyle = &v
		}
		step.Profile = profile

		if userID != nil {
			if _, err := s.userService.UpdateProfile(ctx, *userID, *profile); err != nil {
				s.log.Warn("Failed to persist onboarding profile",
					"user_id", userID.String(),
					"error", err,
				)
			} else {
				s.log.Info("Onboarding complete", "user_id", userID.String())
			}
		}
	}
	return step, nil
}

func boolField(doc map[string]any, key string) bool {
	v, _ := doc[key].(bool)
	return v
}
