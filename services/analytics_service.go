package services

import (
	"context"
	"fmt"

	"github.com/brianvfarias/daily-diet-api/models"
)

// MealReader is the slice of the meal store analytics needs. Both results
// must come from the same snapshot.
type MealReader interface {
	ReadSummary(ctx context.Context, sessionID string) ([]models.Meal, []DietGroup, error)
}

type AnalyticsService struct{ meals MealReader }

func NewAnalyticsService(meals MealReader) *AnalyticsService {
	return &AnalyticsService{meals: meals}
}

type MealTotals struct {
	TotalMeals int64 `json:"total_meals"`
	CleanMeals int64 `json:"clean_meals"`
	JunkMeals  int64 `json:"junk_meals"`
}

type AnalyticsSummary struct {
	HighestStreak int        `json:"highest_streak"`
	Analytics     MealTotals `json:"analytics"`
}

func (s *AnalyticsService) Summary(ctx context.Context, sessionID string) (*AnalyticsSummary, error) {
	meals, groups, err := s.meals.ReadSummary(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}
	return &AnalyticsSummary{
		HighestStreak: HighestStreak(meals),
		Analytics:     SummarizeGroups(groups),
	}, nil
}

// HighestStreak expects meals ordered by meal_time. It keeps one run length
// per stretch between off-diet meals and returns the longest.
func HighestStreak(meals []models.Meal) int {
	runs := []int{0}
	for _, m := range meals {
		if m.BelongsToDiet {
			runs[len(runs)-1]++
			continue
		}
		runs = append(runs, 0)
	}

	highest := 0
	for _, r := range runs {
		if r > highest {
			highest = r
		}
	}
	return highest
}

// SummarizeGroups folds GROUP BY belongs_to_diet rows. Each row is one
// summarized group; its count lands on exactly one side.
func SummarizeGroups(groups []DietGroup) MealTotals {
	var out MealTotals
	for _, g := range groups {
		if g.BelongsToDiet {
			out.CleanMeals += g.Total
		} else {
			out.JunkMeals += g.Total
		}
		out.TotalMeals += g.Total
	}
	return out
}
