package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"
	"alcyxob/tritrack/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{fmt.Errorf("wrap: %w", plan.ErrEmptyResult), http.StatusUnprocessableEntity, "No workouts found"},
		{service.ErrNoImages, http.StatusBadRequest, service.ErrNoImages.Error()},
		{service.ErrMealNotFound, http.StatusNotFound, service.ErrMealNotFound.Error()},
		{repository.ErrNotFound, http.StatusNotFound, "not found"},
		{&inference.UpstreamError{StatusCode: 503, Message: "over capacity"}, http.StatusServiceUnavailable, "over capacity"},
		{&inference.UpstreamError{StatusCode: 200, Message: "odd"}, http.StatusBadGateway, "odd"},
		{inference.ErrMissingAPIKey, http.StatusInternalServerError, "Groq API key not configured"},
		{fmt.Errorf("image 2: %w", plan.ErrUnbalancedJSON), http.StatusInternalServerError, "Could not parse AI response as JSON"},
		{errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}
	for _, tt := range tests {
		status, msg := statusFor(tt.err, "fallback")
		assert.Equal(t, tt.wantStatus, status, tt.err.Error())
		assert.Equal(t, tt.wantMsg, msg, tt.err.Error())
	}
}

func TestStatusFor_TooManyImages(t *testing.T) {
	status, _ := statusFor(fmt.Errorf("%w: got 13, at most 12", service.ErrTooManyImages), "fallback")
	assert.Equal(t, http.StatusBadRequest, status)
}
