package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/brianvfarias/daily-diet-api/middlewares"
	"github.com/brianvfarias/daily-diet-api/models"
	"github.com/brianvfarias/daily-diet-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MealStore is what the meal handlers need from services.MealService.
type MealStore interface {
	List(ctx context.Context, sessionID string) ([]models.Meal, error)
	Get(ctx context.Context, sessionID string, mealID uuid.UUID) (*models.Meal, error)
	Create(ctx context.Context, sessionID string, in services.CreateMealInput) (*models.Meal, error)
	Update(ctx context.Context, sessionID string, mealID uuid.UUID, in services.UpdateMealInput) (*models.Meal, error)
	Delete(ctx context.Context, sessionID string, mealID uuid.UUID) error
}

type MealController struct {
	Meals MealStore
	Log   *zap.Logger
}

func NewMealController(meals MealStore, log *zap.Logger) *MealController {
	return &MealController{Meals: meals, Log: log}
}

func (h *MealController) ListMeals(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	meals, err := h.Meals.List(c.Request.Context(), sid)
	if err != nil {
		h.serverError(c, "list meals", err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *MealController) GetMeal(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	meal, err := h.Meals.Get(c.Request.Context(), sid, mealID)
	if errors.Is(err, services.ErrMealNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	if err != nil {
		h.serverError(c, "get meal", err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealController) CreateMeal(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	var body services.CreateMealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := h.Meals.Create(c.Request.Context(), sid, body)
	if errors.Is(err, services.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.serverError(c, "create meal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "New meal added!", "meal": meal})
}

func (h *MealController) UpdateMeal(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	var body services.UpdateMealInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		noRecord(c)
		return
	}
	meal, err := h.Meals.Update(c.Request.Context(), sid, mealID, body)
	if errors.Is(err, services.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.serverError(c, "update meal", err)
		return
	}
	if meal == nil {
		noRecord(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal updated!", "updated": true, "meal": meal})
}

func (h *MealController) DeleteMeal(c *gin.Context) {
	sid, ok := sessionIDFromCtx(c)
	if !ok {
		unauthorized(c)
		return
	}

	// an id that cannot exist is already deleted
	if mealID, err := uuid.Parse(c.Param("id")); err == nil {
		if err := h.Meals.Delete(c.Request.Context(), sid, mealID); err != nil {
			h.serverError(c, "delete meal", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted!"})
}

// --- helpers ---

func noRecord(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "No record found for this meal", "updated": false})
}

func (h *MealController) serverError(c *gin.Context, op string, err error) {
	h.Log.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, middlewares.UnauthorizedBody)
}

func sessionIDFromCtx(c *gin.Context) (string, bool) {
	v, ok := c.Get(middlewares.SessionKey)
	if !ok {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok && sid != ""
}
