package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProgress is the completion record. Exactly one of LessonID, ChapterID,
// CustomLessonID is set; there is one row per (user, content ref) and a
// re-submitted completion amends it instead of duplicating.
type UserProgress struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID       *uuid.UUID    `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	Lesson         *Lesson       `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	ChapterID      *uuid.UUID    `gorm:"type:uuid;index" json:"chapter_id,omitempty"`
	Chapter        *Chapter      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	CustomLessonID *uuid.UUID    `gorm:"type:uuid;index" json:"custom_lesson_id,omitempty"`
	CustomLesson   *CustomLesson `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomLessonID;references:ID" json:"custom_lesson,omitempty"`

	CompletedAt time.Time      `gorm:"column:completed_at;not null" json:"completed_at"`
	Reflection  string         `gorm:"column:reflection" json:"reflection,omitempty"`
	Rating      *int           `gorm:"column:rating" json:"rating,omitempty"`
	TimeSpent   *int           `gorm:"column:time_spent" json:"time_spent,omitempty"`
	MoodBefore  string         `gorm:"column:mood_before" json:"mood_before,omitempty"`
	MoodAfter   string         `gorm:"column:mood_after" json:"mood_after,omitempty"`
	QuizScore   *float64       `gorm:"column:quiz_score" json:"quiz_score,omitempty"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

func (p *UserProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
