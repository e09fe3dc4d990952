package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"alcyxob/tritrack/internal/domain"
)

// coachContext is the athlete data the system prompt is built from. Profile may be nil.
type coachContext struct {
	Profile  *domain.Profile
	Workouts []domain.ActualWorkout
	Meals    []domain.Meal
}

const coachIntro = `You are an expert Ironman triathlon coach and sports nutritionist.
You help athletes prepare for their Ironman events with personalized training and nutrition advice.
Be encouraging but realistic. Provide specific, actionable advice based on the athlete's data.

`

const coachOutro = `Keep responses concise and focused. Use the athlete's data to give personalized feedback.
If they ask about their progress, reference their actual logged data.
If data is missing, encourage them to log more consistently for better insights.`

func buildCoachPrompt(c coachContext) string {
	var b strings.Builder
	b.WriteString(coachIntro)

	if p := c.Profile; p != nil {
		b.WriteString("ATHLETE PROFILE:\n")
		fmt.Fprintf(&b, "- Name: %s\n", orDefault(p.FullName, "Unknown"))
		fmt.Fprintf(&b, "- Weight: %s\n", withUnit(p.WeightKg, "kg"))
		fmt.Fprintf(&b, "- Height: %s\n", withUnit(p.HeightCm, "cm"))
		fmt.Fprintf(&b, "- Event: %s\n", orDefault(p.EventName, "Ironman event"))
		fmt.Fprintf(&b, "- Event Date: %s\n", orDefault(p.EventDate, "Not set"))
		fmt.Fprintf(&b, "- Weekly Training Goal: %s\n", withUnit(p.WeeklyTrainingHoursGoal, "hours"))
		calorieGoal := "Not set"
		if p.DailyCalorieGoal != nil && *p.DailyCalorieGoal > 0 {
			calorieGoal = fmt.Sprintf("%d cal", *p.DailyCalorieGoal)
		}
		fmt.Fprintf(&b, "- Daily Calorie Goal: %s\n\n", calorieGoal)
	}

	if len(c.Workouts) > 0 {
		fmt.Fprintf(&b, "LAST 7 DAYS TRAINING:\n%s\n\n", summarizeWorkouts(c.Workouts))
	} else {
		b.WriteString("LAST 7 DAYS TRAINING: No workouts logged yet.\n\n")
	}

	if len(c.Meals) > 0 {
		fmt.Fprintf(&b, "LAST 7 DAYS NUTRITION:\n%s\n\n", summarizeNutrition(c.Meals))
	} else {
		b.WriteString("LAST 7 DAYS NUTRITION: No meals logged yet.\n\n")
	}

	b.WriteString(coachOutro)
	return b.String()
}

type disciplineTotals struct {
	count    int
	minutes  int
	distance float64
}

// summarizeWorkouts lists per-discipline totals in the canonical discipline order.
func summarizeWorkouts(workouts []domain.ActualWorkout) string {
	totals := map[domain.Discipline]*disciplineTotals{}
	totalMinutes := 0
	for _, w := range workouts {
		d := w.Discipline
		if d == "" {
			d = "other"
		}
		t, ok := totals[d]
		if !ok {
			t = &disciplineTotals{}
			totals[d] = t
		}
		t.count++
		t.minutes += w.DurationMinutes
		t.distance += w.DistanceKm
		totalMinutes += w.DurationMinutes
	}

	var b strings.Builder
	for _, d := range disciplineOrder(totals) {
		t := totals[d]
		fmt.Fprintf(&b, "- %s: %d sessions, %d min total", d, t.count, t.minutes)
		if t.distance > 0 {
			fmt.Fprintf(&b, ", %.1f km", t.distance)
		}
		b.WriteString("\n")
	}
	hours := math.Round(float64(totalMinutes)/60*10) / 10
	fmt.Fprintf(&b, "- Total: %d workouts, %s hours", len(workouts), formatNumber(hours))
	return b.String()
}

func disciplineOrder(totals map[domain.Discipline]*disciplineTotals) []domain.Discipline {
	order := make([]domain.Discipline, 0, len(totals))
	for _, d := range domain.Disciplines {
		if _, ok := totals[d]; ok {
			order = append(order, d)
		}
	}
	var rest []domain.Discipline
	for d := range totals {
		if !d.Valid() {
			rest = append(rest, d)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(order, rest...)
}

// summarizeNutrition averages macro totals over the days that have at least one meal.
func summarizeNutrition(meals []domain.Meal) string {
	type dayTotals struct{ calories, protein, carbs, fat float64 }
	days := map[string]*dayTotals{}
	for _, m := range meals {
		key := m.LoggedAt.UTC().Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &dayTotals{}
			days[key] = d
		}
		if n := m.Nutrition; n != nil {
			d.calories += float64(n.Calories)
			d.protein += n.ProteinG
			d.carbs += n.CarbsG
			d.fat += n.FatG
		}
	}
	if len(days) == 0 {
		return "No nutrition data available."
	}

	var sum dayTotals
	for _, d := range days {
		sum.calories += d.calories
		sum.protein += d.protein
		sum.carbs += d.carbs
		sum.fat += d.fat
	}
	n := float64(len(days))
	return fmt.Sprintf(`Average daily intake (%d days tracked):
- Calories: %d kcal
- Protein: %dg
- Carbs: %dg
- Fat: %dg`, len(days),
		int(math.Round(sum.calories/n)),
		int(math.Round(sum.protein/n)),
		int(math.Round(sum.carbs/n)),
		int(math.Round(sum.fat/n)))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func withUnit(v *float64, unit string) string {
	if v == nil || *v == 0 {
		return "Not set"
	}
	return formatNumber(*v) + " " + unit
}

// formatNumber prints 72 as "72" and 72.5 as "72.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
