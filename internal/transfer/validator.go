package transfer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("hhmm", validateClock)
		_ = validate.RegisterValidation("platform", validatePlatform)
		_ = validate.RegisterValidation("tz", validateZone)
	})
	return validate
}

// Validate checks struct tags and flattens the failures into one message.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "hhmm":
		return fmt.Sprintf("%s must be HH:MM, got %q", fe.Namespace(), fe.Value())
	case "platform":
		return fmt.Sprintf("%s must be one of linkedin, instagram, x, facebook", fe.Namespace())
	case "tz":
		return fmt.Sprintf("%s is not a known time zone", fe.Namespace())
	}
	return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := scheduler.ParseClock(fl.Field().String())
	return err == nil
}

func validatePlatform(fl validator.FieldLevel) bool {
	return models.Platform(fl.Field().String()).Valid()
}

func validateZone(fl validator.FieldLevel) bool {
	_, err := scheduler.LoadZone(fl.Field().String())
	return err == nil
}
