package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/metrics"
	"alcyxob/tritrack/internal/plan"
	"alcyxob/tritrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealSummary totals one calendar day of meals (UTC) against the profile calorie goal.
type MealSummary struct {
	Date              string           `json:"date"`
	Meals             int              `json:"meals"`
	Totals            domain.Nutrition `json:"totals"`
	CalorieGoal       *int             `json:"calorieGoal,omitempty"`
	CaloriesRemaining *int             `json:"caloriesRemaining,omitempty"`
}

type NutritionService interface {
	LogMeal(ctx context.Context, userID, description string, loggedAt time.Time) (*domain.Meal, error)
	List(ctx context.Context, userID string, r repository.DateRange) ([]domain.Meal, error)
	Delete(ctx context.Context, userID string, mealID primitive.ObjectID) error
	DailySummary(ctx context.Context, userID string, day time.Time) (*MealSummary, error)
}

type nutritionService struct {
	meals    repository.MealRepository
	profiles repository.ProfileRepository
	foods    FoodAnalyzer
	instr    *metrics.Manager
	now      func() time.Time
}

func NewNutritionService(meals repository.MealRepository, profiles repository.ProfileRepository, foods FoodAnalyzer, instr *metrics.Manager) NutritionService {
	return &nutritionService{
		meals:    meals,
		profiles: profiles,
		foods:    foods,
		instr:    instr,
		now:      time.Now,
	}
}

// LogMeal saves the meal with its nutrition when the lookup succeeds. A failed lookup is logged
// and the meal is saved without nutrition.
func (s *nutritionService) LogMeal(ctx context.Context, userID, description string, loggedAt time.Time) (*domain.Meal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: meal description is required", ErrInvalidInput)
	}
	if loggedAt.IsZero() {
		loggedAt = s.now()
	}

	meal := &domain.Meal{
		UserID:      userID,
		Description: description,
		LoggedAt:    loggedAt.UTC(),
	}

	analysis, err := s.foods.Analyze(ctx, description)
	if err != nil {
		log.Warnf("nutrition lookup failed for %q: %v", description, err)
	} else {
		n := analysis.Nutrition
		meal.Nutrition = &n
		meal.LookupItems = analysis.ItemNames()
	}

	if _, err := s.meals.Create(ctx, meal); err != nil {
		return nil, err
	}
	if s.instr != nil {
		s.instr.CounterMealsLogged.Inc()
	}
	return meal, nil
}

func (s *nutritionService) List(ctx context.Context, userID string, r repository.DateRange) ([]domain.Meal, error) {
	return s.meals.List(ctx, userID, r)
}

func (s *nutritionService) Delete(ctx context.Context, userID string, mealID primitive.ObjectID) error {
	err := s.meals.Delete(ctx, mealID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMealNotFound
	}
	return err
}

func (s *nutritionService) DailySummary(ctx context.Context, userID string, day time.Time) (*MealSummary, error) {
	if day.IsZero() {
		day = s.now()
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	meals, err := s.meals.List(ctx, userID, repository.DateRange{Start: start, End: end})
	if err != nil {
		return nil, err
	}

	summary := &MealSummary{
		Date:   plan.FormatDate(start),
		Meals:  len(meals),
		Totals: SumMeals(meals),
	}

	profile, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		if goal := profile.DailyCalorieGoal; goal != nil && *goal > 0 {
			remaining := *goal - summary.Totals.Calories
			summary.CalorieGoal = goal
			summary.CaloriesRemaining = &remaining
		}
	case !errors.Is(err, repository.ErrNotFound):
		log.Warnf("failed to load profile for calorie goal of user %s: %v", userID, err)
	}
	return summary, nil
}

// SumMeals adds up the nutrition of meals. Meals without nutrition count as zero.
func SumMeals(meals []domain.Meal) domain.Nutrition {
	var total domain.Nutrition
	for _, m := range meals {
		if m.Nutrition == nil {
			continue
		}
		total.Calories += m.Nutrition.Calories
		total.ProteinG += m.Nutrition.ProteinG
		total.CarbsG += m.Nutrition.CarbsG
		total.FatG += m.Nutrition.FatG
		total.FiberG += m.Nutrition.FiberG
		total.SugarG += m.Nutrition.SugarG
		total.SodiumMg += m.Nutrition.SodiumMg
	}
	total.ProteinG = round1(total.ProteinG)
	total.CarbsG = round1(total.CarbsG)
	total.FatG = round1(total.FatG)
	total.FiberG = round1(total.FiberG)
	total.SugarG = round1(total.SugarG)
	total.SodiumMg = round1(total.SodiumMg)
	return total
}
