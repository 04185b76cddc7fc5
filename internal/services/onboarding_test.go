package services

import (
	"context"
	"testing"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
)

type fakeAIClient struct {
	chatReply string
	chatErr   error
	gotTurns  []ChatMessage
}

func (f *fakeAIClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	return nil, nil
}

func (f *fakeAIClient) Chat(ctx context.Context, messages []ChatMessage, maxTokens int) (string, error) {
	f.gotTurns = messages
	return f.chatReply, f.chatErr
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func TestOnboardingNextStepMidConversation(t *testing.T) {
	ai := &fakeAIClient{chatReply: "What tradition are you drawn to?"}
	svc := NewOnboardingService(nil, testLogger(t), ai, nil, nil)

	step, err := svc.NextStep(context.Background(), nil, nil, "")
	if err != nil {
		t.Fatalf("NextStep error: %v", err)
	}
	if step.Complete {
		t.Fatalf("plain reply must not complete onboarding")
	}
	if step.Message != "What tradition are you drawn to?" {
		t.Fatalf("message = %q", step.Message)
	}
	if len(ai.gotTurns) == 0 || ai.gotTurns[0].Role != "system" {
		t.Fatalf("expected system prompt as first turn")
	}
}

func TestOnboardingNextStepCompletion(t *testing.T) {
	ai := &fakeAIClient{chatReply: `Wonderful! {"is_complete": true, "message": "Welcome aboard", ` +
		`"user_data": {"persona": "practitioner", "religion": "Islam", "goals": "daily practice", "learning_style": "stories"}}`}
	svc := NewOnboardingService(nil, testLogger(t), ai, nil, nil)

	history := []ChatMessage{
		{Role: "assistant", Content: "Do you practice a religion?"},
	}
	step, err := svc.NextStep(context.Background(), nil, history, "Yes, Islam")
	if err != nil {
		t.Fatalf("NextStep error: %v", err)
	}
	if !step.Complete {
		t.Fatalf("expected completion")
	}
	if step.Message != "Welcome aboard" {
		t.Fatalf("message = %q", step.Message)
	}
	if step.Profile == nil {
		t.Fatalf("expected extracted profile")
	}
	if step.Profile.Persona == nil || *step.Profile.Persona != "practitioner" {
		t.Fatalf("persona not extracted: %+v", step.Profile)
	}
	if step.Profile.Religion == nil || *step.Profile.Religion != "islam" {
		t.Fatalf("religion must be lowercased, got %+v", step.Profile.Religion)
	}
	if step.Profile.Goals == nil || *step.Profile.Goals != "daily practice" {
		t.Fatalf("goals not extracted")
	}
}

func TestOnboardingNextStepRejectsEmptyFollowup(t *testing.T) {
	ai := &fakeAIClient{chatReply: "unused"}
	svc := NewOnboardingService(nil, testLogger(t), ai, nil, nil)

	history := []ChatMessage{{Role: "assistant", Content: "Hi!"}}
	if _, err := svc.NextStep(context.Background(), nil, history, "   "); err == nil {
		t.Fatalf("expected error for empty follow-up message")
	}
}
