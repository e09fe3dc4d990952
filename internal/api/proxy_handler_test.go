package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxy_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, RouteOptions{AIConfigured: true})

	for _, path := range []string{"/api/coach", "/api/parse-plan"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rec := ts.do(t, method, path, nil, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", method, path)
			assert.Equal(t, "Method not allowed", errorMessage(t, rec))
		}
	}
}

func TestProxy_MissingAPIKey(t *testing.T) {
	ts := newTestServer(t, RouteOptions{AIConfigured: false})

	rec := ts.do(t, http.MethodPost, "/api/coach", gin.H{"messages": []any{}}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Groq API key not configured", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{"image": "aGVsbG8="}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Groq API key not configured", errorMessage(t, rec))

	// method check comes first
	rec = ts.do(t, http.MethodGet, "/api/coach", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCoachProxy(t *testing.T) {
	ts := newTestServer(t, RouteOptions{AIConfigured: true})

	var got []inference.Message
	ts.coach.complete = func(_ context.Context, messages []inference.Message) (string, error) {
		got = messages
		return "Go easy today.", nil
	}

	rec := ts.do(t, http.MethodPost, "/api/coach", gin.H{
		"messages": []gin.H{
			{"role": "system", "content": "You are a coach."},
			{"role": "user", "content": "Should I run?"},
		},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body CoachProxyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Go easy today.", body.Content)
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[1].Role)
}

func TestCoachProxy_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing messages",
			body:       gin.H{"prompt": "hi"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Messages array is required",
		},
		{
			name:       "messages not an array",
			body:       gin.H{"messages": "hi"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Messages array is required",
		},
		{
			name:       "upstream status passed through",
			body:       gin.H{"messages": []gin.H{{"role": "user", "content": "hi"}}},
			err:        &inference.UpstreamError{StatusCode: http.StatusTooManyRequests, Message: "Rate limit reached"},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Rate limit reached",
		},
		{
			name:       "empty content",
			body:       gin.H{"messages": []gin.H{{"role": "user", "content": "hi"}}},
			err:        inference.ErrEmptyContent,
			wantStatus: http.StatusInternalServerError,
			wantError:  "No response from AI",
		},
		{
			name:       "transport failure",
			body:       gin.H{"messages": []gin.H{{"role": "user", "content": "hi"}}},
			err:        fmt.Errorf("send groq request: %w", context.DeadlineExceeded),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, RouteOptions{AIConfigured: true})
			ts.coach.complete = func(context.Context, []inference.Message) (string, error) {
				return "", tt.err
			}
			rec := ts.do(t, http.MethodPost, "/api/coach", tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, errorMessage(t, rec))
		})
	}
}

func TestParsePlanProxy_SingleImage(t *testing.T) {
	ts := newTestServer(t, RouteOptions{AIConfigured: true})

	var gotImages []service.ImageInput
	var gotOpts service.PlanOptions
	ts.plans.parseImages = func(_ context.Context, images []service.ImageInput, opts service.PlanOptions) (*plan.Plan, error) {
		gotImages, gotOpts = images, opts
		return &plan.Plan{
			StartDate: "2025-03-03",
			EndDate:   "2025-03-04",
			Workouts: []plan.Workout{
				{Date: "2025-03-03", Discipline: domain.DisciplineSwim, Title: "Drills"},
				{Date: "2025-03-04", Discipline: domain.DisciplineRest},
			},
		}, nil
	}

	rec := ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{
		"image":    base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
		"mimeType": "image/png",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, gotImages, 1)
	assert.Equal(t, []byte("jpeg-bytes"), gotImages[0].Data)
	assert.Equal(t, "image/png", gotImages[0].MimeType)
	assert.Equal(t, service.PlanOptions{}, gotOpts)

	var body struct {
		Schedule plan.Plan `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-03", body.Schedule.StartDate)
	assert.Equal(t, "2025-03-04", body.Schedule.EndDate)
	require.Len(t, body.Schedule.Workouts, 2)
	assert.Equal(t, domain.DisciplineSwim, body.Schedule.Workouts[0].Discipline)
}

func TestParsePlanProxy_MultipleImagesWithAnchor(t *testing.T) {
	ts := newTestServer(t, RouteOptions{AIConfigured: true})

	var gotImages []service.ImageInput
	var gotOpts service.PlanOptions
	ts.plans.parseImages = func(_ context.Context, images []service.ImageInput, opts service.PlanOptions) (*plan.Plan, error) {
		gotImages, gotOpts = images, opts
		return &plan.Plan{StartDate: "2025-03-03", Workouts: []plan.Workout{}}, nil
	}

	rec := ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{
		"images": []gin.H{
			{"image": "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("p1"))},
			{"image": base64.StdEncoding.EncodeToString([]byte("p2")), "mimeType": "image/jpeg"},
		},
		"raceDate": "2025-06-15",
		"weeks":    12,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, gotImages, 2)
	assert.Equal(t, service.ImageInput{Data: []byte("p1"), MimeType: "image/webp"}, gotImages[0])
	assert.Equal(t, service.ImageInput{Data: []byte("p2"), MimeType: "image/jpeg"}, gotImages[1])
	assert.Equal(t, service.PlanOptions{RaceDate: "2025-06-15", Weeks: 12}, gotOpts)
}

func TestParsePlanProxy_Errors(t *testing.T) {
	validImage := base64.StdEncoding.EncodeToString([]byte("img"))

	tests := []struct {
		name       string
		body       any
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "no image",
			body:       gin.H{"mimeType": "image/png"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Base64 image is required",
		},
		{
			name:       "not base64",
			body:       gin.H{"image": "%%%not-base64%%%"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Image is not valid base64",
		},
		{
			name:       "second page empty",
			body:       gin.H{"images": []gin.H{{"image": validImage}, {"image": ""}}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Base64 image is required (image 2)",
		},
		{
			name:       "bad race date",
			body:       gin.H{"image": validImage, "raceDate": "2025-02-30"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "malformed workout",
			body: gin.H{"image": validImage},
			err: fmt.Errorf("image 1: %w", &plan.MalformedWorkoutError{
				Position: 3, Index: 3, Field: "discipline", Value: "yoga", Reason: "must be one of swim, bike, run, strength, brick, rest",
			}),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid anchor",
			body:       gin.H{"image": validImage},
			err:        fmt.Errorf("%w: weeks must be positive, got 0", plan.ErrInvalidArgument),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "model answered without JSON",
			body:       gin.H{"image": validImage},
			err:        fmt.Errorf("image 1: %w", plan.ErrNoJSONObject),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Could not parse AI response as JSON",
		},
		{
			name:       "upstream unauthorized",
			body:       gin.H{"image": validImage},
			err:        fmt.Errorf("image 1: %w", &inference.UpstreamError{StatusCode: http.StatusUnauthorized, Message: "Invalid API Key"}),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid API Key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, RouteOptions{AIConfigured: true})
			ts.plans.parseImages = func(context.Context, []service.ImageInput, service.PlanOptions) (*plan.Plan, error) {
				return nil, tt.err
			}
			rec := ts.do(t, http.MethodPost, "/api/parse-plan", tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			msg := errorMessage(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, msg)
			}
			if tt.wantStatus == http.StatusUnprocessableEntity {
				assert.Contains(t, msg, `field "discipline"`)
				assert.Contains(t, msg, "#4")
			}
		})
	}
}

func TestDecodeImage(t *testing.T) {
	data, mimeType, err := decodeImage("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
	assert.Equal(t, "image/png", mimeType)

	data, mimeType, err = decodeImage(base64.StdEncoding.EncodeToString([]byte("xyz")))
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), data)
	assert.Empty(t, mimeType)

	_, _, err = decodeImage("not base64!")
	assert.Error(t, err)
}

func TestParsePlanProxy_ImageLimits(t *testing.T) {
	page := base64.StdEncoding.EncodeToString([]byte("img"))

	t.Run("too many pages", func(t *testing.T) {
		ts := newTestServer(t, RouteOptions{AIConfigured: true})
		called := false
		ts.plans.parseImages = func(context.Context, []service.ImageInput, service.PlanOptions) (*plan.Plan, error) {
			called = true
			return &plan.Plan{}, nil
		}

		images := make([]gin.H, service.MaxPlanImages+1)
		for i := range images {
			images[i] = gin.H{"image": page}
		}
		rec := ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{"images": images}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "At most 12 images are allowed", errorMessage(t, rec))
		assert.False(t, called)

		// the single image field counts towards the cap
		rec = ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{"image": page, "images": images[1:]}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
	})

	t.Run("cap is accepted", func(t *testing.T) {
		ts := newTestServer(t, RouteOptions{AIConfigured: true})
		var got int
		ts.plans.parseImages = func(_ context.Context, images []service.ImageInput, _ service.PlanOptions) (*plan.Plan, error) {
			got = len(images)
			return &plan.Plan{}, nil
		}
		images := make([]gin.H, service.MaxPlanImages)
		for i := range images {
			images[i] = gin.H{"image": page}
		}
		rec := ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{"images": images}, "")
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, service.MaxPlanImages, got)
	})

	t.Run("oversized page", func(t *testing.T) {
		ts := newTestServer(t, RouteOptions{AIConfigured: true})
		ts.plans.parseImages = func(context.Context, []service.ImageInput, service.PlanOptions) (*plan.Plan, error) {
			t.Fatal("oversized page must not reach the model")
			return nil, nil
		}
		big := base64.StdEncoding.EncodeToString(make([]byte, maxPlanImageSize+1))
		rec := ts.do(t, http.MethodPost, "/api/parse-plan", gin.H{"images": []gin.H{{"image": page}, {"image": big}}}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, fmt.Sprintf("Image exceeds %d bytes (image 2)", maxPlanImageSize), errorMessage(t, rec))
	})
}
