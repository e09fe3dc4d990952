package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlannedWorkout is a single scheduled session, usually belonging to a TrainingPlan.
type PlannedWorkout struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                string             `bson:"userId" json:"userId"`
	PlanID                primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	ScheduledDate         string             `bson:"scheduledDate" json:"scheduledDate"` // YYYY-MM-DD
	Discipline            Discipline         `bson:"discipline" json:"discipline"`
	Title                 string             `bson:"title,omitempty" json:"title,omitempty"`
	Description           string             `bson:"description,omitempty" json:"description,omitempty"`
	TargetDurationMinutes *float64           `bson:"targetDurationMinutes,omitempty" json:"targetDurationMinutes,omitempty"`
	TargetDistanceKm      *float64           `bson:"targetDistanceKm,omitempty" json:"targetDistanceKm,omitempty"`
	TargetIntensity       Intensity          `bson:"targetIntensity,omitempty" json:"targetIntensity,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
}

// ActualWorkout is a completed session logged by the athlete.
type ActualWorkout struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID           string              `bson:"userId" json:"userId"`
	PlannedWorkoutID *primitive.ObjectID `bson:"plannedWorkoutId,omitempty" json:"plannedWorkoutId,omitempty"`
	CompletedAt      time.Time           `bson:"completedAt" json:"completedAt"`
	Discipline       Discipline          `bson:"discipline" json:"discipline"`
	Title            string              `bson:"title,omitempty" json:"title,omitempty"`
	DurationMinutes  int                 `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	DistanceKm       float64             `bson:"distanceKm,omitempty" json:"distanceKm,omitempty"`
	AvgHeartRate     *int                `bson:"avgHeartRate,omitempty" json:"avgHeartRate,omitempty"`
	PerceivedEffort  *int                `bson:"perceivedEffort,omitempty" json:"perceivedEffort,omitempty"` // 1-10
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
