package domain

import "time"

// Profile is the athlete's profile, keyed by the auth provider's user id.
type Profile struct {
	UserID                  string    `bson:"_id" json:"id"`
	FullName                string    `bson:"fullName,omitempty" json:"fullName,omitempty"`
	WeightKg                *float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	HeightCm                *float64  `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	EventName               string    `bson:"eventName,omitempty" json:"eventName,omitempty"`
	EventDate               string    `bson:"eventDate,omitempty" json:"eventDate,omitempty"` // YYYY-MM-DD
	WeeklyTrainingHoursGoal *float64  `bson:"weeklyTrainingHoursGoal,omitempty" json:"weeklyTrainingHoursGoal,omitempty"`
	DailyCalorieGoal        *int      `bson:"dailyCalorieGoal,omitempty" json:"dailyCalorieGoal,omitempty"`
	UpdatedAt               time.Time `bson:"updatedAt" json:"updatedAt"`
}
