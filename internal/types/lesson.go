package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DifficultyRank maps difficulty labels onto their order (beginner <
// intermediate < advanced). Unknown labels rank as beginner.
func DifficultyRank(difficulty string) int {
	switch difficulty {
	case DifficultyIntermediate:
		return 2
	case DifficultyAdvanced:
		return 3
	default:
		return 1
	}
}

// NextDifficulty returns the next step up, or "" from advanced.
func NextDifficulty(difficulty string) string {
	switch difficulty {
	case DifficultyBeginner:
		return DifficultyIntermediate
	case DifficultyIntermediate:
		return DifficultyAdvanced
	default:
		return ""
	}
}

type Lesson struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Content       string         `gorm:"column:content;not null" json:"content"`
	Religion      string         `gorm:"column:religion;not null;index" json:"religion"`
	Difficulty    string         `gorm:"column:difficulty;not null;index" json:"difficulty"`
	Duration      int            `gorm:"column:duration;not null" json:"duration"`
	PracticalTask string         `gorm:"column:practical_task" json:"practical_task,omitempty"`
	LessonType    string         `gorm:"column:lesson_type;not null;default:'static'" json:"lesson_type"`
	AIGenerated   bool           `gorm:"column:ai_generated;not null;default:false" json:"ai_generated"`
	Sources       datatypes.JSON `gorm:"column:sources;type:jsonb" json:"sources,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
