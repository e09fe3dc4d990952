package repository

import (
	"context"
	"time"

	"alcyxob/tritrack/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// DateRange bounds a list query. Both ends are inclusive; a zero value leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Every repository is scoped by the auth provider's user id. Reads and deletes of another
// user's document behave as if the document does not exist.

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error)
	List(ctx context.Context, userID string, r DateRange) ([]domain.Meal, error) // newest first
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.TrainingPlan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.TrainingPlan, error) // newest first
	GetActive(ctx context.Context, userID string) (*domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	DeactivateOtherPlans(ctx context.Context, userID string, excludePlanID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

// PlannedWorkoutRepository ranges are matched against the YYYY-MM-DD scheduled date.
type PlannedWorkoutRepository interface {
	Create(ctx context.Context, workout *domain.PlannedWorkout) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, workouts []domain.PlannedWorkout) ([]primitive.ObjectID, error)
	List(ctx context.Context, userID string, r DateRange) ([]domain.PlannedWorkout, error) // oldest first
	ListByPlan(ctx context.Context, planID primitive.ObjectID, userID string) ([]domain.PlannedWorkout, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
	DeleteByPlan(ctx context.Context, planID primitive.ObjectID, userID string) (int64, error)
}

type ActualWorkoutRepository interface {
	Create(ctx context.Context, workout *domain.ActualWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.ActualWorkout, error)
	List(ctx context.Context, userID string, r DateRange) ([]domain.ActualWorkout, error) // newest first
	Update(ctx context.Context, workout *domain.ActualWorkout) error
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
}

type CoachingSessionRepository interface {
	// GetOrCreate returns the user's most recently updated session, creating an empty one if none exists.
	GetOrCreate(ctx context.Context, userID string) (*domain.CoachingSession, error)
	AddMessages(ctx context.Context, sessionID primitive.ObjectID, messages ...domain.ChatMessage) (*domain.CoachingSession, error)
	ClearMessages(ctx context.Context, sessionID primitive.ObjectID) (*domain.CoachingSession, error)
}
