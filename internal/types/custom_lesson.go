package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomLesson struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Topic          string         `gorm:"column:topic;not null" json:"topic"`
	Religion       string         `gorm:"column:religion;not null" json:"religion"`
	Difficulty     string         `gorm:"column:difficulty;not null;default:'beginner'" json:"difficulty"`
	Content        string         `gorm:"column:content;not null" json:"content"`
	QuizQuestions  datatypes.JSON `gorm:"column:quiz_questions;type:jsonb" json:"quiz_questions,omitempty"`
	PracticalTasks datatypes.JSON `gorm:"column:practical_tasks;type:jsonb" json:"practical_tasks,omitempty"`
	Sources        datatypes.JSON `gorm:"column:sources;type:jsonb" json:"sources,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (CustomLesson) TableName() string { return "custom_lesson" }

func (cl *CustomLesson) BeforeCreate(*gorm.DB) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return nil
}
