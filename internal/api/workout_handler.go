package api

import (
	"net/http"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler serves completed workouts, planned workouts and the weekly summary.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type LogWorkoutRequest struct {
	PlannedWorkoutID string            `json:"plannedWorkoutId" binding:"omitempty,len=24,hexadecimal"`
	CompletedAt      *time.Time        `json:"completedAt"`
	Discipline       domain.Discipline `json:"discipline" binding:"required"`
	Title            string            `json:"title" binding:"omitempty,max=200"`
	DurationMinutes  int               `json:"durationMinutes" binding:"gte=0"`
	DistanceKm       float64           `json:"distanceKm" binding:"gte=0"`
	AvgHeartRate     *int              `json:"avgHeartRate" binding:"omitempty,gt=0,lt=260"`
	PerceivedEffort  *int              `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	Notes            string            `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateWorkoutRequest is a partial update. Omitted fields keep their stored values.
type UpdateWorkoutRequest struct {
	CompletedAt     *time.Time         `json:"completedAt"`
	Discipline      *domain.Discipline `json:"discipline"`
	Title           *string            `json:"title" binding:"omitempty,max=200"`
	DurationMinutes *int               `json:"durationMinutes" binding:"omitempty,gte=0"`
	DistanceKm      *float64           `json:"distanceKm" binding:"omitempty,gte=0"`
	AvgHeartRate    *int               `json:"avgHeartRate" binding:"omitempty,gt=0,lt=260"`
	PerceivedEffort *int               `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	Notes           *string            `json:"notes" binding:"omitempty,max=2000"`
}

// CreatePlannedRequest adds workouts, optionally to an existing plan.
type CreatePlannedRequest struct {
	PlanID   string         `json:"planId" binding:"omitempty,len=24,hexadecimal"`
	Workouts []plan.Workout `json:"workouts" binding:"required,min=1"`
}

// --- Completed workouts ---

// LogWorkout godoc
// @Summary Log a completed workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body LogWorkoutRequest true "Workout"
// @Success 201 {object} domain.ActualWorkout
// @Failure 400 {object} gin.H "Validation error"
// @Router /workouts [post]
func (h *WorkoutHandler) LogWorkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	w := &domain.ActualWorkout{
		Discipline:      req.Discipline,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		DistanceKm:      req.DistanceKm,
		AvgHeartRate:    req.AvgHeartRate,
		PerceivedEffort: req.PerceivedEffort,
		Notes:           req.Notes,
	}
	if req.CompletedAt != nil {
		w.CompletedAt = req.CompletedAt.UTC()
	}
	if req.PlannedWorkoutID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlannedWorkoutID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid plannedWorkoutId format.")
			return
		}
		w.PlannedWorkoutID = &id
	}

	logged, err := h.workoutService.LogWorkout(c.Request.Context(), userID, w)
	if err != nil {
		respondError(c, err, "Failed to log workout.")
		return
	}
	c.JSON(http.StatusCreated, logged)
}

// ListWorkouts godoc
// @Summary List completed workouts, optionally between from and to (YYYY-MM-DD, inclusive)
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ActualWorkout
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := queryDateRange(c)
	if !ok {
		return
	}
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, r)
	if err != nil {
		respondError(c, err, "Failed to list workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.ActualWorkout{}
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	updated, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, service.WorkoutPatch{
		CompletedAt:     req.CompletedAt,
		Discipline:      req.Discipline,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		DistanceKm:      req.DistanceKm,
		AvgHeartRate:    req.AvgHeartRate,
		PerceivedEffort: req.PerceivedEffort,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		respondError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// WeeklyStats godoc
// @Summary Per-discipline totals of the Monday-to-Sunday week containing date
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} service.WeeklyStats
// @Router /workouts/stats [get]
func (h *WorkoutHandler) WeeklyStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	day, ok := queryDay(c)
	if !ok {
		return
	}
	stats, err := h.workoutService.WeeklyStats(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err, "Failed to compute weekly stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- Planned workouts ---

func (h *WorkoutHandler) ListPlanned(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	r, ok := queryDateRange(c)
	if !ok {
		return
	}
	planned, err := h.workoutService.ListPlanned(c.Request.Context(), userID, r)
	if err != nil {
		respondError(c, err, "Failed to list planned workouts.")
		return
	}
	if planned == nil {
		planned = []domain.PlannedWorkout{}
	}
	c.JSON(http.StatusOK, planned)
}

// CreatePlanned godoc
// @Summary Add one or more planned workouts in a single batch
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workouts body CreatePlannedRequest true "Workouts"
// @Success 201 {array} domain.PlannedWorkout
// @Failure 422 {object} gin.H "Malformed workout"
// @Router /planned-workouts [post]
func (h *WorkoutHandler) CreatePlanned(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req CreatePlannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var planID *primitive.ObjectID
	if req.PlanID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid planId format.")
			return
		}
		planID = &id
	}

	created, err := h.workoutService.CreatePlanned(c.Request.Context(), userID, planID, req.Workouts)
	if err != nil {
		respondError(c, err, "Failed to create planned workouts.")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *WorkoutHandler) DeletePlanned(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.DeletePlanned(c.Request.Context(), userID, workoutID); err != nil {
		respondError(c, err, "Failed to delete planned workout.")
		return
	}
	c.Status(http.StatusNoContent)
}
