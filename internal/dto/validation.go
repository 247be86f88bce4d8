package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

var clockTag = regexp.MustCompile(`^(([01]\d|2[0-3]):[0-5]\d|24:00)$`)

// NewValidator returns a validator with the hhmm and weekday tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clockTag.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.Weekday(fl.Field().String()).Valid()
	})
	return v
}
