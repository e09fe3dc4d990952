package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ProxyHandler serves the public AI endpoints the web client calls with its own conversation
// or photographed plan pages. The provider key never leaves the server.
type ProxyHandler struct {
	coachService service.CoachService
	planService  service.PlanService
	aiConfigured bool
}

func NewProxyHandler(coachService service.CoachService, planService service.PlanService, aiConfigured bool) *ProxyHandler {
	return &ProxyHandler{
		coachService: coachService,
		planService:  planService,
		aiConfigured: aiConfigured,
	}
}

type CoachProxyRequest struct {
	Messages []inference.Message `json:"messages"`
}

type CoachProxyResponse struct {
	Content string `json:"content"`
}

// ImagePayload is one base64 encoded page. A data URL prefix is accepted.
type ImagePayload struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// ParsePlanRequest accepts a single image (image, mimeType) or several pages in images.
type ParsePlanRequest struct {
	Image     string         `json:"image"`
	MimeType  string         `json:"mimeType"`
	Images    []ImagePayload `json:"images"`
	StartDate string         `json:"startDate" binding:"omitempty,isodate"`
	RaceDate  string         `json:"raceDate" binding:"omitempty,isodate"`
	Weeks     int            `json:"weeks" binding:"omitempty,min=1,max=104"`
}

// preflight enforces POST and a configured provider key, in that order.
func (h *ProxyHandler) preflight(c *gin.Context) bool {
	if c.Request.Method != http.MethodPost {
		abortWithError(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return false
	}
	if !h.aiConfigured {
		abortWithError(c, http.StatusInternalServerError, msgMissingAPIKey)
		return false
	}
	return true
}

// Coach godoc
// @Summary Forward a conversation to the chat model
// @Tags AI
// @Accept json
// @Produce json
// @Param request body CoachProxyRequest true "Conversation"
// @Success 200 {object} CoachProxyResponse
// @Failure 400 {object} gin.H "Messages array is required"
// @Failure 405 {object} gin.H "Method not allowed"
// @Failure 500 {object} gin.H "Key missing or empty answer"
// @Router /api/coach [post]
func (h *ProxyHandler) Coach(c *gin.Context) {
	if !h.preflight(c) {
		return
	}

	var req CoachProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Messages == nil {
		abortWithError(c, http.StatusBadRequest, "Messages array is required")
		return
	}

	content, err := h.coachService.Complete(c.Request.Context(), req.Messages)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, CoachProxyResponse{Content: content})
}

// ParsePlan godoc
// @Summary Read training plan photos into a merged schedule
// @Tags AI
// @Accept json
// @Produce json
// @Param request body ParsePlanRequest true "Plan pages and optional anchor"
// @Success 200 {object} gin.H "{schedule: {startDate, endDate, weeks, workouts}}"
// @Failure 400 {object} gin.H "Base64 image is required"
// @Failure 422 {object} gin.H "Malformed workout"
// @Router /api/parse-plan [post]
func (h *ProxyHandler) ParsePlan(c *gin.Context) {
	if !h.preflight(c) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxParsePlanBody)

	var req ParsePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "Request body is too large")
			return
		}
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	payloads := req.Images
	if req.Image != "" {
		payloads = append([]ImagePayload{{Image: req.Image, MimeType: req.MimeType}}, payloads...)
	}
	if len(payloads) == 0 {
		abortWithError(c, http.StatusBadRequest, "Base64 image is required")
		return
	}
	if len(payloads) > maxPlanImages {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("At most %d images are allowed", maxPlanImages))
		return
	}

	images, err := decodeImages(payloads)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.planService.ParseImages(c.Request.Context(), images, service.PlanOptions{
		StartDate: req.StartDate,
		RaceDate:  req.RaceDate,
		Weeks:     req.Weeks,
	})
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

func decodeImages(payloads []ImagePayload) ([]service.ImageInput, error) {
	images := make([]service.ImageInput, 0, len(payloads))
	for i, p := range payloads {
		if p.Image == "" {
			return nil, imageError(i, "Base64 image is required")
		}
		data, mimeType, err := decodeImage(p.Image)
		if errors.Is(err, errTooLarge) {
			return nil, imageError(i, fmt.Sprintf("Image exceeds %d bytes", maxPlanImageSize))
		}
		if err != nil {
			return nil, imageError(i, "Image is not valid base64")
		}
		if len(data) > maxPlanImageSize {
			return nil, imageError(i, fmt.Sprintf("Image exceeds %d bytes", maxPlanImageSize))
		}
		if p.MimeType != "" {
			mimeType = p.MimeType
		}
		images = append(images, service.ImageInput{Data: data, MimeType: mimeType})
	}
	return images, nil
}

var errTooLarge = errors.New("encoded image too large")

// decodeImage decodes raw base64 or a data URL, returning the mime type a data URL names.
func decodeImage(s string) ([]byte, string, error) {
	mimeType := ""
	if base64.StdEncoding.DecodedLen(len(s)) > maxPlanImageSize+4<<10 {
		return nil, "", errTooLarge
	}
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if found {
			mimeType = strings.TrimSuffix(header, ";base64")
			s = body
		}
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// imageError names the page only when several were sent.
func imageError(index int, msg string) error {
	if index == 0 {
		return errors.New(msg)
	}
	return fmt.Errorf("%s (image %d)", msg, index+1)
}
