package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreakSaver is a consumable token that preserves a streak across one missed
// day. IsUsed is true iff UsedAt is set; UsedAt is set exactly once.
type StreakSaver struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PurchasedAt time.Time  `gorm:"column:purchased_at;not null" json:"purchased_at"`
	IsUsed      bool       `gorm:"column:is_used;not null;default:false;index" json:"is_used"`
	UsedAt      *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (StreakSaver) TableName() string { return "streak_saver" }

func (s *StreakSaver) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
