package api

import (
	"errors"
	"net/http"

	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Messages shared with the public AI endpoints.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgMissingAPIKey    = "Groq API key not configured"
	msgNoResponse       = "No response from AI"
	msgUnparsable       = "Could not parse AI response as JSON"
	msgInternal         = "Internal server error"
)

// statusFor maps a service error to an HTTP status and client message.
// Unknown errors map to 500 with fallback as the message.
func statusFor(err error, fallback string) (int, string) {
	var (
		malformed *plan.MalformedWorkoutError
		upstream  *inference.UpstreamError
	)

	switch {
	case errors.As(err, &malformed):
		return http.StatusUnprocessableEntity, malformed.Error()
	case errors.Is(err, plan.ErrEmptyResult):
		return http.StatusUnprocessableEntity, "No workouts found"
	case errors.Is(err, plan.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNoImages),
		errors.Is(err, service.ErrTooManyImages),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, upstream.Message
	case errors.Is(err, inference.ErrMissingAPIKey):
		return http.StatusInternalServerError, msgMissingAPIKey
	case errors.Is(err, inference.ErrEmptyContent):
		return http.StatusInternalServerError, msgNoResponse
	case errors.Is(err, plan.ErrNoJSONObject),
		errors.Is(err, plan.ErrUnbalancedJSON),
		errors.Is(err, plan.ErrInvalidSchedule):
		return http.StatusInternalServerError, msgUnparsable
	}
	return http.StatusInternalServerError, fallback
}

// respondError logs server-side failures and writes the mapped error response.
func respondError(c *gin.Context, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		log.Debugf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	_ = c.Error(err)
	abortWithError(c, status, msg)
}
