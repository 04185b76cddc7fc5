package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Description    string    `gorm:"column:description" json:"description,omitempty"`
	Religion       string    `gorm:"column:religion;not null;index" json:"religion"`
	Difficulty     string    `gorm:"column:difficulty;not null" json:"difficulty"`
	TotalChapters  int       `gorm:"column:total_chapters;not null;default:0" json:"total_chapters"`
	EstimatedHours int       `gorm:"column:estimated_hours;not null;default:0" json:"estimated_hours"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
