// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingPlan is a multi-week schedule owned by one user. At most one plan per user is active;
// the service deactivates the others when a plan is created or activated.
type TrainingPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	StartDate string             `bson:"startDate,omitempty" json:"startDate,omitempty"` // YYYY-MM-DD, Monday of week 1
	EndDate   string             `bson:"endDate,omitempty" json:"endDate,omitempty"`     // YYYY-MM-DD, race date when anchored
	RaceDate  string             `bson:"raceDate,omitempty" json:"raceDate,omitempty"`
	Weeks     int                `bson:"weeks,omitempty" json:"weeks,omitempty"`
	Source    PlanSource         `bson:"source" json:"source"`
	PhotoKeys []string           `bson:"photoKeys,omitempty" json:"-"` // object keys of the uploaded plan images
	Workouts  int                `bson:"workoutCount" json:"workoutCount"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PlanSource records how a plan was created.
type PlanSource string

const (
	PlanSourceImages PlanSource = "images"
	PlanSourceJSON   PlanSource = "json"
	PlanSourceManual PlanSource = "manual"
)
