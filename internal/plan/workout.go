package plan

import (
	"alcyxob/tritrack/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a workout candidate extracted from an image or pasted JSON. The JSON keys follow the
// schedule format the vision prompt asks for.
type Workout struct {
	Date            string            `json:"date"`
	Discipline      domain.Discipline `json:"discipline"`
	Title           string            `json:"title,omitempty"`
	Description     string            `json:"description,omitempty"`
	DurationMinutes *float64          `json:"duration,omitempty"`
	DistanceKm      *float64          `json:"distance,omitempty"`
	Intensity       domain.Intensity  `json:"intensity,omitempty"`
}

// Source is the workout list extracted from one image or one pasted document.
type Source struct {
	Workouts []Workout `json:"workouts"`
}

// validate returns the offending field name, value and reason, or an empty field when valid.
func (w Workout) validate() (field, value, reason string) {
	if !datePattern.MatchString(w.Date) {
		return "date", w.Date, "must match YYYY-MM-DD"
	}
	if !ValidDate(w.Date) {
		return "date", w.Date, "is not a calendar date"
	}
	if !w.Discipline.Valid() {
		return "discipline", string(w.Discipline), "must be one of swim, bike, run, strength, brick, rest"
	}
	if w.Intensity != "" && !w.Intensity.Valid() {
		return "intensity", string(w.Intensity), "must be one of easy, moderate, hard, race, recovery"
	}
	return "", "", ""
}

// ToPlanned converts a merged workout into a persisted planned workout for the given plan.
func (w Workout) ToPlanned(userID string, planID primitive.ObjectID) domain.PlannedWorkout {
	return domain.PlannedWorkout{
		UserID:                userID,
		PlanID:                planID,
		ScheduledDate:         w.Date,
		Discipline:            w.Discipline,
		Title:                 w.Title,
		Description:           w.Description,
		TargetDurationMinutes: w.DurationMinutes,
		TargetDistanceKm:      w.DistanceKm,
		TargetIntensity:       w.Intensity,
	}
}
