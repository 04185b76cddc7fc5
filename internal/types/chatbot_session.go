package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatbotSession struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User                *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SessionTitle        string         `gorm:"column:session_title" json:"session_title,omitempty"`
	InitialConcern      string         `gorm:"column:initial_concern;not null" json:"initial_concern"`
	Religion            string         `gorm:"column:religion;not null" json:"religion"`
	ConversationHistory datatypes.JSON `gorm:"column:conversation_history;type:jsonb" json:"conversation_history,omitempty"`
	GeneratedLesson     string         `gorm:"column:generated_lesson" json:"generated_lesson,omitempty"`
	RecommendedVerses   datatypes.JSON `gorm:"column:recommended_verses;type:jsonb" json:"recommended_verses,omitempty"`
	MoodImprovement     string         `gorm:"column:mood_improvement" json:"mood_improvement,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (ChatbotSession) TableName() string { return "chatbot_session" }

func (cs *ChatbotSession) BeforeCreate(*gorm.DB) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	return nil
}
