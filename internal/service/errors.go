package service

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoImages        = errors.New("at least one image is required")
	ErrTooManyImages   = errors.New("too many images")
	ErrPlanNotFound    = errors.New("training plan not found")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrMealNotFound    = errors.New("meal not found")
	ErrEmptyMessage    = errors.New("message is empty")
)
