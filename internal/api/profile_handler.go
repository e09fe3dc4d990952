package api

import (
	"net/http"

	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest is a partial update. Omitted fields keep their stored values.
type UpdateProfileRequest struct {
	FullName                *string  `json:"fullName" binding:"omitempty,max=120"`
	WeightKg                *float64 `json:"weightKg" binding:"omitempty,gt=0,lt=400"`
	HeightCm                *float64 `json:"heightCm" binding:"omitempty,gt=0,lt=300"`
	EventName               *string  `json:"eventName" binding:"omitempty,max=120"`
	EventDate               *string  `json:"eventDate" binding:"omitempty,isodate"`
	WeeklyTrainingHoursGoal *float64 `json:"weeklyTrainingHoursGoal" binding:"omitempty,gte=0,lte=60"`
	DailyCalorieGoal        *int     `json:"dailyCalorieGoal" binding:"omitempty,gte=0,lte=20000"`
}

// GetProfile godoc
// @Summary Get the athlete profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update the athlete profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} gin.H "Validation error"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, service.ProfileUpdate{
		FullName:                req.FullName,
		WeightKg:                req.WeightKg,
		HeightCm:                req.HeightCm,
		EventName:               req.EventName,
		EventDate:               req.EventDate,
		WeeklyTrainingHoursGoal: req.WeeklyTrainingHoursGoal,
		DailyCalorieGoal:        req.DailyCalorieGoal,
	})
	if err != nil {
		respondError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, profile)
}
