package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"
)

// ProfileUpdate holds the profile fields to change. Nil fields are left as they are.
type ProfileUpdate struct {
	FullName                *string
	WeightKg                *float64
	HeightCm                *float64
	EventName               *string
	EventDate               *string
	WeeklyTrainingHoursGoal *float64
	DailyCalorieGoal        *int
}

type ProfileService interface {
	// Get returns the stored profile, or an empty one for users who never saved theirs.
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.Profile{UserID: userID}, nil
	}
	return p, err
}

func (s *profileService) Update(ctx context.Context, userID string, u ProfileUpdate) (*domain.Profile, error) {
	if err := u.validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.WeightKg != nil {
		p.WeightKg = u.WeightKg
	}
	if u.HeightCm != nil {
		p.HeightCm = u.HeightCm
	}
	if u.EventName != nil {
		p.EventName = *u.EventName
	}
	if u.EventDate != nil {
		p.EventDate = *u.EventDate
	}
	if u.WeeklyTrainingHoursGoal != nil {
		p.WeeklyTrainingHoursGoal = u.WeeklyTrainingHoursGoal
	}
	if u.DailyCalorieGoal != nil {
		p.DailyCalorieGoal = u.DailyCalorieGoal
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u ProfileUpdate) validate() error {
	if u.EventDate != nil && *u.EventDate != "" && !plan.ValidDate(*u.EventDate) {
		return fmt.Errorf("%w: event date %q is not YYYY-MM-DD", ErrInvalidInput, *u.EventDate)
	}
	for name, v := range map[string]*float64{
		"weight":       u.WeightKg,
		"height":       u.HeightCm,
		"weekly hours": u.WeeklyTrainingHoursGoal,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}
	if u.DailyCalorieGoal != nil && *u.DailyCalorieGoal < 0 {
		return fmt.Errorf("%w: daily calorie goal must not be negative", ErrInvalidInput)
	}
	return nil
}
