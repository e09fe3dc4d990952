package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"
	"alcyxob/tritrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters-long"

// Stubs embed the service interface so a test only overrides what it calls.
// Calling anything else panics on the nil embedded value.

type stubCoachService struct {
	service.CoachService
	complete    func(ctx context.Context, messages []inference.Message) (string, error)
	sendMessage func(ctx context.Context, userID, message string) (*service.CoachReply, error)
}

func (s *stubCoachService) Complete(ctx context.Context, messages []inference.Message) (string, error) {
	return s.complete(ctx, messages)
}

func (s *stubCoachService) SendMessage(ctx context.Context, userID, message string) (*service.CoachReply, error) {
	return s.sendMessage(ctx, userID, message)
}

type stubPlanService struct {
	service.PlanService
	parseImages    func(ctx context.Context, images []service.ImageInput, opts service.PlanOptions) (*plan.Plan, error)
	importFromJSON func(ctx context.Context, userID, document string, opts service.PlanOptions) (*service.PlanImport, error)
	importImages   func(ctx context.Context, userID string, images []service.ImageInput, opts service.PlanOptions) (*service.PlanImport, error)
	get            func(ctx context.Context, userID string, planID primitive.ObjectID) (*service.PlanDetail, error)
}

func (s *stubPlanService) ParseImages(ctx context.Context, images []service.ImageInput, opts service.PlanOptions) (*plan.Plan, error) {
	return s.parseImages(ctx, images, opts)
}

func (s *stubPlanService) ImportFromJSON(ctx context.Context, userID, document string, opts service.PlanOptions) (*service.PlanImport, error) {
	return s.importFromJSON(ctx, userID, document, opts)
}

func (s *stubPlanService) ImportFromImages(ctx context.Context, userID string, images []service.ImageInput, opts service.PlanOptions) (*service.PlanImport, error) {
	return s.importImages(ctx, userID, images, opts)
}

func (s *stubPlanService) Get(ctx context.Context, userID string, planID primitive.ObjectID) (*service.PlanDetail, error) {
	return s.get(ctx, userID, planID)
}

type stubWorkoutService struct {
	service.WorkoutService
	listWorkouts func(ctx context.Context, userID string, r repository.DateRange) ([]domain.ActualWorkout, error)
	weeklyStats  func(ctx context.Context, userID string, day time.Time) (*service.WeeklyStats, error)
}

func (s *stubWorkoutService) ListWorkouts(ctx context.Context, userID string, r repository.DateRange) ([]domain.ActualWorkout, error) {
	return s.listWorkouts(ctx, userID, r)
}

func (s *stubWorkoutService) WeeklyStats(ctx context.Context, userID string, day time.Time) (*service.WeeklyStats, error) {
	return s.weeklyStats(ctx, userID, day)
}

type stubProfileService struct {
	service.ProfileService
	update func(ctx context.Context, userID string, u service.ProfileUpdate) (*domain.Profile, error)
}

func (s *stubProfileService) Update(ctx context.Context, userID string, u service.ProfileUpdate) (*domain.Profile, error) {
	return s.update(ctx, userID, u)
}

type testServer struct {
	router  *gin.Engine
	coach   *stubCoachService
	plans   *stubPlanService
	work    *stubWorkoutService
	profile *stubProfileService
}

func newTestServer(t *testing.T, opts RouteOptions) *testServer {
	t.Helper()
	ts := &testServer{
		router:  gin.New(),
		coach:   &stubCoachService{},
		plans:   &stubPlanService{},
		work:    &stubWorkoutService{},
		profile: &stubProfileService{},
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = testSecret
	}
	SetupRoutes(ts.router, opts, Services{
		Profile: ts.profile,
		Plan:    ts.plans,
		Workout: ts.work,
		Coach:   ts.coach,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := supabaseClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}
