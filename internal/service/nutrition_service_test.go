package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/metrics"
	"alcyxob/tritrack/internal/nutrition"
	"alcyxob/tritrack/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func newNutritionFixture(t *testing.T) (*nutritionService, *MockFoodAnalyzer, *fakeMealRepo, *fakeProfileRepo) {
	ctrl := gomock.NewController(t)
	foods := NewMockFoodAnalyzer(ctrl)
	meals := &fakeMealRepo{}
	profiles := newFakeProfileRepo()
	svc := NewNutritionService(meals, profiles, foods, metrics.NewTestManager()).(*nutritionService)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc, foods, meals, profiles
}

func TestLogMeal_WithNutrition(t *testing.T) {
	svc, foods, _, _ := newNutritionFixture(t)
	foods.EXPECT().Analyze(gomock.Any(), "oatmeal with banana").Return(&nutrition.Analysis{
		Nutrition: domain.Nutrition{Calories: 350, ProteinG: 9.1, CarbsG: 64.2, FatG: 5.3},
		Items:     []nutrition.Item{{Name: "oatmeal"}, {Name: "banana"}},
	}, nil)

	meal, err := svc.LogMeal(context.Background(), "u1", " oatmeal with banana ", time.Time{})
	require.NoError(t, err)
	assert.False(t, meal.ID.IsZero())
	assert.Equal(t, "oatmeal with banana", meal.Description)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), meal.LoggedAt)
	require.NotNil(t, meal.Nutrition)
	assert.Equal(t, 350, meal.Nutrition.Calories)
	assert.Equal(t, []string{"oatmeal", "banana"}, meal.LookupItems)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.instr.CounterMealsLogged))
}

func TestLogMeal_LookupFailureStillSaves(t *testing.T) {
	svc, foods, meals, _ := newNutritionFixture(t)
	foods.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(nil, nutrition.ErrNoItems)

	meal, err := svc.LogMeal(context.Background(), "u1", "grandma's mystery stew", time.Time{})
	require.NoError(t, err)
	assert.Nil(t, meal.Nutrition)
	assert.Len(t, meals.meals, 1)
}

func TestLogMeal_EmptyDescription(t *testing.T) {
	svc, _, _, _ := newNutritionFixture(t)
	_, err := svc.LogMeal(context.Background(), "u1", "  ", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDailySummary(t *testing.T) {
	svc, _, meals, profiles := newNutritionFixture(t)
	ctx := context.Background()
	require.NoError(t, profiles.Upsert(ctx, &domain.Profile{UserID: "u1", DailyCalorieGoal: intPtr(2500)}))

	add := func(at time.Time, n *domain.Nutrition) {
		_, err := meals.Create(ctx, &domain.Meal{UserID: "u1", Description: "x", LoggedAt: at, Nutrition: n})
		require.NoError(t, err)
	}
	add(time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC), &domain.Nutrition{Calories: 600, ProteinG: 30.2, FiberG: 4})
	add(time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC), &domain.Nutrition{Calories: 900, ProteinG: 40.2, FiberG: 6})
	add(time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), nil)
	add(time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC), &domain.Nutrition{Calories: 1000})

	summary, err := svc.DailySummary(ctx, "u1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", summary.Date)
	assert.Equal(t, 3, summary.Meals)
	assert.Equal(t, 1500, summary.Totals.Calories)
	assert.InDelta(t, 70.4, summary.Totals.ProteinG, 1e-9)
	assert.InDelta(t, 10.0, summary.Totals.FiberG, 1e-9)
	require.NotNil(t, summary.CaloriesRemaining)
	assert.Equal(t, 1000, *summary.CaloriesRemaining)
}

func TestDeleteMeal(t *testing.T) {
	svc, _, meals, _ := newNutritionFixture(t)
	ctx := context.Background()
	id, err := meals.Create(ctx, &domain.Meal{UserID: "u1", Description: "toast"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", id), ErrMealNotFound)
	assert.NoError(t, svc.Delete(ctx, "u1", id))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", primitive.NewObjectID()), ErrMealNotFound)

	list, err := svc.List(ctx, "u1", repository.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSumMeals(t *testing.T) {
	assert.Equal(t, domain.Nutrition{}, SumMeals(nil))
}
