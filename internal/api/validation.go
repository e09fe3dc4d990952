package api

import (
	"fmt"

	"alcyxob/tritrack/internal/plan"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules to gin's validator engine.
// Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("isodate", isoDate)
}

// isoDate accepts YYYY-MM-DD strings naming a real calendar date. Empty strings are left to omitempty.
func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || plan.ValidDate(s)
}
