package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	maxPlanImages    = service.MaxPlanImages
	maxPlanImageSize = 10 << 20
	// maxParsePlanBody fits maxPlanImages base64 pages plus the JSON around them.
	maxParsePlanBody = maxPlanImages*(maxPlanImageSize/3*4+4) + 64<<10
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// PlanAnchor is the optional naming and dating shared by every way of creating a plan.
type PlanAnchor struct {
	Name      string `json:"name" form:"name" binding:"omitempty,max=120"`
	StartDate string `json:"startDate" form:"startDate" binding:"omitempty,isodate"`
	RaceDate  string `json:"raceDate" form:"raceDate" binding:"omitempty,isodate"`
	Weeks     int    `json:"weeks" form:"weeks" binding:"omitempty,min=1,max=104"`
}

func (a PlanAnchor) options() service.PlanOptions {
	return service.PlanOptions{
		Name:      a.Name,
		StartDate: a.StartDate,
		RaceDate:  a.RaceDate,
		Weeks:     a.Weeks,
	}
}

type CreatePlanRequest struct {
	Name      string         `json:"name" binding:"required,max=120"`
	StartDate string         `json:"startDate" binding:"omitempty,isodate"`
	RaceDate  string         `json:"raceDate" binding:"omitempty,isodate"`
	Weeks     int            `json:"weeks" binding:"omitempty,min=1,max=104"`
	Workouts  []plan.Workout `json:"workouts"`
}

// ImportPlanRequest carries a schedule either as pasted text (document) or as a JSON object (schedule).
type ImportPlanRequest struct {
	PlanAnchor
	Document string          `json:"document"`
	Schedule json.RawMessage `json:"schedule"`
}

// --- Handler Methods ---

// ListPlans godoc
// @Summary List the athlete's training plans, newest first
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TrainingPlan
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list training plans.")
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tp, err := h.planService.GetActive(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load active plan.")
		return
	}
	c.JSON(http.StatusOK, tp)
}

// GetPlan godoc
// @Summary Get a plan with its workouts and photo links
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} service.PlanDetail
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	detail, err := h.planService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "Failed to load training plan.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreatePlan godoc
// @Summary Create a plan from hand-entered workouts
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan"
// @Success 201 {object} service.PlanImport
// @Failure 422 {object} gin.H "Malformed workout"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	opts := service.PlanOptions{
		Name:      req.Name,
		StartDate: req.StartDate,
		RaceDate:  req.RaceDate,
		Weeks:     req.Weeks,
	}
	result, err := h.planService.CreateManual(c.Request.Context(), userID, opts, req.Workouts)
	if err != nil {
		respondError(c, err, "Failed to create training plan.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UploadPlan godoc
// @Summary Import a plan from photographed pages
// @Description Multipart form with one or more "images" files plus optional name, startDate, raceDate, weeks.
// @Tags Plans
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.PlanImport
// @Failure 400 {object} gin.H "No images"
// @Failure 422 {object} gin.H "Malformed workout"
// @Router /plans/upload [post]
func (h *PlanHandler) UploadPlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var anchor PlanAnchor
	if err := c.ShouldBind(&anchor); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	images, err := readUploadedImages(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.planService.ImportFromImages(c.Request.Context(), userID, images, anchor.options())
	if err != nil {
		respondError(c, err, "Failed to import training plan.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ImportPlan godoc
// @Summary Import a plan from a pasted schedule document
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body ImportPlanRequest true "Schedule"
// @Success 201 {object} service.PlanImport
// @Failure 400 {object} gin.H "No JSON schedule"
// @Failure 422 {object} gin.H "Malformed workout or no workouts"
// @Router /plans/import [post]
func (h *PlanHandler) ImportPlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req ImportPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	document := req.Document
	if document == "" && len(req.Schedule) > 0 {
		document = string(req.Schedule)
	}
	if document == "" {
		abortWithError(c, http.StatusBadRequest, "A schedule document is required")
		return
	}

	result, err := h.planService.ImportFromJSON(c.Request.Context(), userID, document, req.options())
	if err != nil {
		// the document came from the user, so a bad one is their error
		if errors.Is(err, plan.ErrNoJSONObject) || errors.Is(err, plan.ErrUnbalancedJSON) || errors.Is(err, plan.ErrInvalidSchedule) {
			abortWithError(c, http.StatusBadRequest, "Could not parse schedule: "+err.Error())
			return
		}
		respondError(c, err, "Failed to import training plan.")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	tp, err := h.planService.SetActive(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "Failed to activate training plan.")
		return
	}
	c.JSON(http.StatusOK, tp)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err, "Failed to delete training plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

// readUploadedImages reads the "images" files of a multipart request in the order they were sent.
func readUploadedImages(c *gin.Context) ([]service.ImageInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("Expected a multipart form: %v", err)
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, errors.New("At least one image is required")
	}
	if len(files) > maxPlanImages {
		return nil, fmt.Errorf("At most %d images are allowed", maxPlanImages)
	}

	images := make([]service.ImageInput, 0, len(files))
	for i, fh := range files {
		if fh.Size > maxPlanImageSize {
			return nil, fmt.Errorf("Image %d exceeds %d bytes", i+1, maxPlanImageSize)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("Cannot read image %d: %v", i+1, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxPlanImageSize))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("Cannot read image %d: %v", i+1, err)
		}
		images = append(images, service.ImageInput{
			Data:     data,
			MimeType: fh.Header.Get("Content-Type"),
		})
	}
	return images, nil
}
