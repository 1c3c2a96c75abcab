package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvfarias/daily-diet-api/models"
)

// accepted meal_time layouts, tried in order
var mealTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"02/01/2006, 15:04:05",
	"02/01/2006 15:04",
}

// ParseMealTime parses a client supplied timestamp. Values without a zone
// are read in loc.
func ParseMealTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range mealTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized meal_time %q", ErrValidation, raw)
}

// CreateMealInput is the creation body. meal_desc must be present but may be
// an empty string.
type CreateMealInput struct {
	MealName      string  `json:"meal_name" binding:"required"`
	MealDesc      *string `json:"meal_desc" binding:"required"`
	BelongsToDiet *bool   `json:"belongs_to_diet"`
	MealTime      string  `json:"meal_time"`
}

// UpdateMealInput is the partial update body. Every field is optional.
type UpdateMealInput struct {
	MealName      string `json:"meal_name"`
	MealDesc      string `json:"meal_desc"`
	BelongsToDiet *bool  `json:"belongs_to_diet"`
	MealTime      string `json:"meal_time"`
}

// MealPatch is an update with meal_time already parsed. A zero MealTime and
// empty strings mean "not supplied"; a nil BelongsToDiet keeps the stored flag.
type MealPatch struct {
	MealName      string
	MealDesc      string
	BelongsToDiet *bool
	MealTime      time.Time
}

func (in UpdateMealInput) Patch(loc *time.Location) (MealPatch, error) {
	p := MealPatch{
		MealName:      in.MealName,
		MealDesc:      in.MealDesc,
		BelongsToDiet: in.BelongsToDiet,
	}
	if strings.TrimSpace(in.MealTime) != "" {
		t, err := ParseMealTime(in.MealTime, loc)
		if err != nil {
			return MealPatch{}, err
		}
		p.MealTime = t
	}
	return p, nil
}

// MergeMeal applies patch onto existing and returns the record to persist.
// The diet flag overwrites whenever it differs, false included. Text and time
// fields only overwrite with a non-empty, different value, so a partial
// update can never blank them.
func MergeMeal(existing models.Meal, patch MealPatch) models.Meal {
	merged := existing

	if patch.MealName != "" && patch.MealName != merged.MealName {
		merged.MealName = patch.MealName
	}
	if patch.MealDesc != "" && patch.MealDesc != merged.MealDesc {
		merged.MealDesc = patch.MealDesc
	}
	if patch.BelongsToDiet != nil && *patch.BelongsToDiet != merged.BelongsToDiet {
		merged.BelongsToDiet = *patch.BelongsToDiet
	}
	if !patch.MealTime.IsZero() && !patch.MealTime.Equal(merged.MealTime) {
		merged.MealTime = patch.MealTime
	}

	return merged
}
