package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SacredText struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Religion    string    `gorm:"column:religion;not null;index" json:"religion"`
	Book        string    `gorm:"column:book;not null" json:"book"`
	Chapter     string    `gorm:"column:chapter" json:"chapter,omitempty"`
	Verse       string    `gorm:"column:verse" json:"verse,omitempty"`
	Text        string    `gorm:"column:text;not null" json:"text"`
	Translation string    `gorm:"column:translation" json:"translation,omitempty"`
	Keywords    string    `gorm:"column:keywords" json:"keywords,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (SacredText) TableName() string { return "sacred_text" }

func (st *SacredText) BeforeCreate(*gorm.DB) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	return nil
}
