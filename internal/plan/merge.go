package plan

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Plan is the merged, validated and chronologically ordered schedule of one import.
// EndDate is empty when neither a race date nor any workout is available.
type Plan struct {
	Name      string    `json:"name,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Weeks     int       `json:"weeks,omitempty"`
	Workouts  []Workout `json:"workouts"`
}

// MergeSchedules concatenates the workouts of all sources, validates every entry, stable-sorts
// them by date and packages them into a Plan starting at startDate.
//
// raceDate and weeks are optional (empty / zero). The end date is raceDate when given, otherwise
// the date of the last workout. An empty startDate is derived from the first workout.
// The first invalid workout aborts the merge with a *MalformedWorkoutError; nothing is dropped
// or coerced.
func MergeSchedules(sources []Source, startDate, raceDate string, weeks int) (*Plan, error) {
	if startDate != "" && !ValidDate(startDate) {
		return nil, fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrInvalidArgument, startDate)
	}
	if raceDate != "" && !ValidDate(raceDate) {
		return nil, fmt.Errorf("%w: race date %q is not YYYY-MM-DD", ErrInvalidArgument, raceDate)
	}
	if weeks < 0 {
		return nil, fmt.Errorf("%w: weeks must not be negative, got %d", ErrInvalidArgument, weeks)
	}

	total := 0
	for _, src := range sources {
		total += len(src.Workouts)
	}

	workouts := make([]Workout, 0, total)
	for s, src := range sources {
		for i, w := range src.Workouts {
			if field, value, reason := w.validate(); field != "" {
				return nil, &MalformedWorkoutError{
					Source:   s,
					Index:    i,
					Position: len(workouts),
					Field:    field,
					Value:    value,
					Reason:   reason,
				}
			}
			workouts = append(workouts, w)
		}
	}

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date < workouts[j].Date
	})

	p := &Plan{
		StartDate: startDate,
		EndDate:   raceDate,
		Weeks:     weeks,
		Workouts:  workouts,
	}
	if len(workouts) > 0 {
		if p.StartDate == "" {
			p.StartDate = workouts[0].Date
		}
		if p.EndDate == "" {
			p.EndDate = workouts[len(workouts)-1].Date
		}
	}
	return p, nil
}

// MarshalJSON always emits startDate, endDate and weeks, as null when unknown.
func (p Plan) MarshalJSON() ([]byte, error) {
	type wirePlan struct {
		Name      string    `json:"name,omitempty"`
		StartDate *string   `json:"startDate"`
		EndDate   *string   `json:"endDate"`
		Weeks     *int      `json:"weeks"`
		Workouts  []Workout `json:"workouts"`
	}
	w := wirePlan{Name: p.Name, Workouts: p.Workouts}
	if p.StartDate != "" {
		w.StartDate = &p.StartDate
	}
	if p.EndDate != "" {
		w.EndDate = &p.EndDate
	}
	if p.Weeks > 0 {
		w.Weeks = &p.Weeks
	}
	if w.Workouts == nil {
		w.Workouts = []Workout{}
	}
	return json.Marshal(w)
}

func (p *Plan) Empty() bool {
	return len(p.Workouts) == 0
}

// OutOfRange returns the indexes of workouts dated outside [StartDate, EndDate].
// Source material is imperfect, so these are reported as warnings rather than rejected.
func (p *Plan) OutOfRange() []int {
	var out []int
	for i, w := range p.Workouts {
		if (p.StartDate != "" && w.Date < p.StartDate) || (p.EndDate != "" && w.Date > p.EndDate) {
			out = append(out, i)
		}
	}
	return out
}
