package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID           uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course             *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	ChapterNumber      int       `gorm:"column:chapter_number;not null" json:"chapter_number"`
	Title              string    `gorm:"column:title;not null" json:"title"`
	Content            string    `gorm:"column:content;not null" json:"content"`
	Duration           int       `gorm:"column:duration;not null" json:"duration"`
	LearningObjectives string    `gorm:"column:learning_objectives" json:"learning_objectives,omitempty"`
	Prerequisites      string    `gorm:"column:prerequisites" json:"prerequisites,omitempty"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }

func (c *Chapter) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
