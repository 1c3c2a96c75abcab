package services

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvfarias/daily-diet-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestMergeMeal(t *testing.T) {
	base := models.Meal{
		MealID:        uuid.New(),
		MealName:      "A",
		MealDesc:      "desc",
		MealTime:      time.Date(2023, 1, 23, 12, 55, 0, 0, time.UTC),
		BelongsToDiet: true,
		SessionID:     "sess",
	}
	later := base.MealTime.Add(2 * time.Hour)

	tests := []struct {
		name  string
		patch MealPatch
		want  func(m models.Meal) models.Meal
	}{
		{
			name:  "empty name never overwrites, false diet does",
			patch: MealPatch{MealName: "", BelongsToDiet: boolPtr(false)},
			want: func(m models.Meal) models.Meal {
				m.BelongsToDiet = false
				return m
			},
		},
		{
			name:  "empty patch is a no-op",
			patch: MealPatch{},
			want:  func(m models.Meal) models.Meal { return m },
		},
		{
			name:  "text fields overwrite when non-empty",
			patch: MealPatch{MealName: "B", MealDesc: "new desc"},
			want: func(m models.Meal) models.Meal {
				m.MealName = "B"
				m.MealDesc = "new desc"
				return m
			},
		},
		{
			name:  "same diet flag keeps record",
			patch: MealPatch{BelongsToDiet: boolPtr(true)},
			want:  func(m models.Meal) models.Meal { return m },
		},
		{
			name:  "meal time overwrites when set",
			patch: MealPatch{MealTime: later},
			want: func(m models.Meal) models.Meal {
				m.MealTime = later
				return m
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeMeal(base, tt.patch)
			assert.Equal(t, tt.want(base), got)
		})
	}
}

func TestMergeMealKeepsIdentity(t *testing.T) {
	base := models.Meal{MealID: uuid.New(), SessionID: "owner", MealName: "A", MealDesc: "d"}
	got := MergeMeal(base, MealPatch{MealName: "B", MealDesc: "e", BelongsToDiet: boolPtr(true)})
	assert.Equal(t, base.MealID, got.MealID)
	assert.Equal(t, "owner", got.SessionID)
}

func TestUpdateMealInputPatch(t *testing.T) {
	p, err := UpdateMealInput{MealName: "X", MealTime: "2023-01-23T12:55:00Z"}.Patch(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "X", p.MealName)
	assert.Nil(t, p.BelongsToDiet)
	assert.True(t, p.MealTime.Equal(time.Date(2023, 1, 23, 12, 55, 0, 0, time.UTC)))

	p, err = UpdateMealInput{MealTime: "   "}.Patch(time.UTC)
	require.NoError(t, err)
	assert.True(t, p.MealTime.IsZero())

	_, err = UpdateMealInput{MealTime: "yesterday-ish"}.Patch(time.UTC)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestParseMealTime(t *testing.T) {
	want := time.Date(2023, 1, 23, 12, 55, 0, 0, time.UTC)
	for _, raw := range []string{
		"2023-01-23T12:55:00Z",
		"2023-01-23T12:55:00",
		"2023-01-23T12:55",
		"2023-01-23 12:55:00",
		"23 Jan 2023 12:55",
		"23/01/2023, 12:55:00",
	} {
		got, err := ParseMealTime(raw, time.UTC)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
	}

	_, err := ParseMealTime("not a date", time.UTC)
	assert.ErrorIs(t, err, ErrValidation)
}
