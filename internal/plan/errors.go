package plan

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrMalformedWorkout = errors.New("malformed workout")
	// ErrEmptyResult means the sources were read and validated but held no workouts.
	ErrEmptyResult = errors.New("no workouts found")

	ErrNoJSONObject    = errors.New("no JSON object in text")
	ErrUnbalancedJSON  = errors.New("unbalanced JSON object in text")
	ErrInvalidSchedule = errors.New("invalid schedule JSON")
)

// MalformedWorkoutError identifies the first workout that failed validation during a merge.
// Source and Index locate the entry in the merge input; Position is its offset in the
// concatenation of all sources.
type MalformedWorkoutError struct {
	Source   int
	Index    int
	Position int
	Field    string
	Value    string
	Reason   string
}

func (e *MalformedWorkoutError) Error() string {
	return fmt.Sprintf("malformed workout #%d (source %d, entry %d): field %q %s, got %q",
		e.Position+1, e.Source+1, e.Index+1, e.Field, e.Reason, e.Value)
}

func (e *MalformedWorkoutError) Unwrap() error {
	return ErrMalformedWorkout
}
