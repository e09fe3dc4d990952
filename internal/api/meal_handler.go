package api

import (
	"net/http"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
)

type MealHandler struct {
	nutritionService service.NutritionService
}

func NewMealHandler(nutritionService service.NutritionService) *MealHandler {
	return &MealHandler{nutritionService: nutritionService}
}

type LogMealRequest struct {
	Description string     `json:"description" binding:"required,max=500"`
	LoggedAt    *time.Time `json:"loggedAt"`
}

// LogMeal godoc
// @Summary Log a meal
// @Description Stores a free-text meal, enriched with nutrition when the lookup finds the foods.
// @Tags Meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body LogMealRequest true "Meal"
// @Success 201 {object} domain.Meal
// @Router /meals [post]
func (h *MealHandler) LogMeal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var loggedAt time.Time
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}
	meal, err := h.nutritionService.LogMeal(c.Request.Context(), userID, req.Description, loggedAt)
	if err != nil {
		respondError(c, err, "Failed to log meal.")
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// ListMeals godoc
// @Summary List meals, optionally between from and to (YYYY-MM-DD, inclusive)
// @Tags Meals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Meal
// @Router /meals [get]
func (h *MealHandler) ListMeals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := queryDateRange(c)
	if !ok {
		return
	}
	meals, err := h.nutritionService.List(c.Request.Context(), userID, r)
	if err != nil {
		respondError(c, err, "Failed to list meals.")
		return
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	c.JSON(http.StatusOK, meals)
}

// DailySummary godoc
// @Summary Nutrition totals of one day against the calorie goal
// @Tags Meals
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} service.MealSummary
// @Router /meals/summary [get]
func (h *MealHandler) DailySummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	day, ok := queryDay(c)
	if !ok {
		return
	}
	summary, err := h.nutritionService.DailySummary(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err, "Failed to summarise meals.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	mealID, ok := pathObjectID(c, "mealId")
	if !ok {
		return
	}
	if err := h.nutritionService.Delete(c.Request.Context(), userID, mealID); err != nil {
		respondError(c, err, "Failed to delete meal.")
		return
	}
	c.Status(http.StatusNoContent)
}
