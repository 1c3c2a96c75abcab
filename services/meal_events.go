package services

import (
	"time"

	"github.com/brianvfarias/daily-diet-api/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventMealCreated = "meal.created"
	EventMealUpdated = "meal.updated"
	EventMealDeleted = "meal.deleted"
)

type MealEvent struct {
	Kind   string       `json:"kind"`
	MealID uuid.UUID    `json:"meal_id"`
	Meal   *models.Meal `json:"meal,omitempty"`
	At     time.Time    `json:"at"`
}

// MealEvents pushes meal changes to the owning session's realtime sockets.
// A nil *MealEvents is valid and drops everything.
type MealEvents struct {
	rt  *RealtimeHub
	log *zap.Logger
}

func NewMealEvents(rt *RealtimeHub, log *zap.Logger) *MealEvents {
	return &MealEvents{rt: rt, log: log}
}

func (e *MealEvents) Emit(sessionID, kind string, mealID uuid.UUID, meal *models.Meal) {
	if e == nil || e.rt == nil {
		return
	}
	sent := e.rt.Broadcast(sessionID, MealEvent{
		Kind:   kind,
		MealID: mealID,
		Meal:   meal,
		At:     time.Now().UTC(),
	})
	if sent > 0 {
		e.log.Debug("meal event delivered",
			zap.String("kind", kind),
			zap.String("meal_id", mealID.String()),
			zap.Int("sockets", sent),
		)
	}
}
