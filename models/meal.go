package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal is one diet log entry owned by an anonymous session.
type Meal struct {
	MealID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"meal_id"`
	MealName      string    `gorm:"not null" json:"meal_name"`
	MealDesc      string    `gorm:"not null" json:"meal_desc"`
	MealTime      time.Time `gorm:"index;not null" json:"meal_time"`
	BelongsToDiet bool      `gorm:"not null" json:"belongs_to_diet"` // no gorm default: false must be writable
	SessionID     string    `gorm:"index;not null" json:"session_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) (err error) {
	if m.MealID == uuid.Nil {
		m.MealID = uuid.New()
	}
	return
}
