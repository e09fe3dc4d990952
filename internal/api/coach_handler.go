package api

import (
	"net/http"

	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
)

// CoachHandler serves the persisted coaching conversation of the signed-in athlete.
type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type CoachMessageRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}

func (h *CoachHandler) GetSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.coachService.Session(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load coaching session.")
		return
	}
	c.JSON(http.StatusOK, session)
}

// SendMessage godoc
// @Summary Ask the AI coach
// @Description Answers with the athlete's profile and last 7 days of training and nutrition as context.
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body CoachMessageRequest true "Message"
// @Success 200 {object} service.CoachReply
// @Failure 500 {object} gin.H "Groq API key not configured"
// @Router /coach/messages [post]
func (h *CoachHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req CoachMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	reply, err := h.coachService.SendMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondError(c, err, msgInternal)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *CoachHandler) ClearSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.coachService.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to clear coaching session.")
		return
	}
	c.JSON(http.StatusOK, session)
}
