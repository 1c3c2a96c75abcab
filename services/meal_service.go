// services/meal_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvfarias/daily-diet-api/metrics"
	"github.com/brianvfarias/daily-diet-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MealService owns meal persistence. Every query except Create is filtered
// by session id, so a foreign meal behaves exactly like a missing one.
type MealService struct {
	db     *gorm.DB
	events *MealEvents
	now    func() time.Time
	loc    *time.Location
}

func NewMealService(db *gorm.DB, events *MealEvents) *MealService {
	return &MealService{
		db:     db,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
		loc:    time.UTC,
	}
}

// DietGroup is one row of the per-flag count.
type DietGroup struct {
	BelongsToDiet bool
	Total         int64
}

func (s *MealService) List(ctx context.Context, sessionID string) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&meals).Error
	return meals, err
}

// ReadSummary loads the ordered meals and the per-flag counts from one
// snapshot, so a concurrent write cannot land between the two reads.
func (s *MealService) ReadSummary(ctx context.Context, sessionID string) ([]models.Meal, []DietGroup, error) {
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	var (
		meals  []models.Meal
		groups []DietGroup
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if meals, err = listOrdered(tx, sessionID); err != nil {
			return fmt.Errorf("list meals: %w", err)
		}
		if groups, err = countByDiet(tx, sessionID); err != nil {
			return fmt.Errorf("count meals: %w", err)
		}
		return nil
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return meals, groups, nil
}

// listOrdered returns the session's meals by meal_time, ties by insertion.
func listOrdered(db *gorm.DB, sessionID string) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := db.
		Where("session_id = ?", sessionID).
		Order("meal_time ASC").
		Order("created_at ASC").
		Find(&meals).Error
	return meals, err
}

func countByDiet(db *gorm.DB, sessionID string) ([]DietGroup, error) {
	var groups []DietGroup
	err := db.
		Model(&models.Meal{}).
		Select("belongs_to_diet, COUNT(*) AS total").
		Where("session_id = ?", sessionID).
		Group("belongs_to_diet").
		Scan(&groups).Error
	return groups, err
}

func (s *MealService) Get(ctx context.Context, sessionID string, mealID uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).
		Where("meal_id = ? AND session_id = ?", mealID, sessionID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMealNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) Create(ctx context.Context, sessionID string, in CreateMealInput) (*models.Meal, error) {
	if sessionID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.MealName) == "" {
		return nil, fmt.Errorf("%w: meal_name is required", ErrValidation)
	}
	if in.MealDesc == nil {
		return nil, fmt.Errorf("%w: meal_desc is required", ErrValidation)
	}

	mealTime := s.now()
	if strings.TrimSpace(in.MealTime) != "" {
		t, err := ParseMealTime(in.MealTime, s.loc)
		if err != nil {
			return nil, err
		}
		mealTime = t.UTC()
	}

	belongs := true
	if in.BelongsToDiet != nil {
		belongs = *in.BelongsToDiet
	}

	meal := &models.Meal{
		MealName:      in.MealName,
		MealDesc:      *in.MealDesc,
		MealTime:      mealTime,
		BelongsToDiet: belongs,
		SessionID:     sessionID,
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	metrics.MealCreated()
	s.events.Emit(sessionID, EventMealCreated, meal.MealID, meal)
	return meal, nil
}

// Update merges in onto the session's meal inside one transaction that holds
// a row lock, so concurrent updates of the same meal cannot lose each other's
// changes. A missing or foreign meal yields (nil, nil) before the body is
// validated.
func (s *MealService) Update(ctx context.Context, sessionID string, mealID uuid.UUID, in UpdateMealInput) (*models.Meal, error) {
	var updated *models.Meal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Meal
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("meal_id = ? AND session_id = ?", mealID, sessionID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		patch, err := in.Patch(s.loc)
		if err != nil {
			return err
		}
		if !patch.MealTime.IsZero() {
			patch.MealTime = patch.MealTime.UTC()
		}

		merged := MergeMeal(existing, patch)
		if err := tx.Save(&merged).Error; err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}

	if updated == nil {
		metrics.MealUpdated("no_record")
		return nil, nil
	}
	metrics.MealUpdated("updated")
	s.events.Emit(sessionID, EventMealUpdated, updated.MealID, updated)
	return updated, nil
}

// Delete is idempotent: nothing to delete is still success.
func (s *MealService) Delete(ctx context.Context, sessionID string, mealID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("meal_id = ? AND session_id = ?", mealID, sessionID).
		Delete(&models.Meal{})
	if res.Error != nil {
		return fmt.Errorf("delete meal: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		metrics.MealDeleted()
		s.events.Emit(sessionID, EventMealDeleted, mealID, nil)
	}
	return nil
}
