package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PersonaCurious      = "curious"
	PersonaPractitioner = "practitioner"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`

	Persona       string `gorm:"column:persona;not null;default:'curious'" json:"persona"`
	Goals         string `gorm:"column:goals" json:"goals,omitempty"`
	LearningStyle string `gorm:"column:learning_style" json:"learning_style,omitempty"`
	Religion      string `gorm:"column:religion" json:"religion,omitempty"`

	CurrentStreak         int        `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak         int        `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastActivityDate      *time.Time `gorm:"column:last_activity_date" json:"last_activity_date,omitempty"`
	StreakSaversAvailable int        `gorm:"column:streak_savers_available;not null;default:0" json:"streak_savers_available"`

	TotalLessonsCompleted int `gorm:"column:total_lessons_completed;not null;default:0" json:"total_lessons_completed"`
	TotalTimeSpent        int `gorm:"column:total_time_spent;not null;default:0" json:"total_time_spent"`

	// Version guards the streak read-modify-write against concurrent updates.
	Version int `gorm:"column:version;not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// BeforeCreate assigns the ID in code so the schema needs no database-side
// UUID function; the same models migrate on postgres and sqlite.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
