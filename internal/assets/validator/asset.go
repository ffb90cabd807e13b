package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"scootal/pkg/logger"
	"scootal/pkg/model"
)

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AssetValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAssetValidator(log *logger.Logger) *AssetValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_time_of_day", validateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'valid_time_of_day' validator",
			"error", err,
		)
	}

	log.Info("Asset validator initialized successfully")

	return &AssetValidator{
		validate: v,
		logger:   log,
	}
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	return timeOfDayRegex.MatchString(fl.Field().String())
}

func (v *AssetValidator) Validate(asset *model.Asset) error {
	if err := v.validate.Struct(asset); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !asset.AllowSixHour && !asset.AllowFullDay {
		return ValidationErrors{
			ValidationError{
				Field:   "AllowSixHour",
				Message: "at least one duration class must be allowed",
			},
		}
	}

	return v.ValidateAvailability(asset.Availability)
}

// ValidateAvailability enforces the weekly calendar shape: exactly one entry
// per weekday, open days carry well-formed times with open_time <= close_time.
func (v *AssetValidator) ValidateAvailability(av model.WeeklyAvailability) error {
	if len(av) != len(model.Weekdays) {
		return ValidationErrors{
			ValidationError{
				Field:   "Availability",
				Message: fmt.Sprintf("availability must cover all %d weekdays, got %d", len(model.Weekdays), len(av)),
			},
		}
	}

	var errs ValidationErrors
	for _, day := range model.Weekdays {
		window, ok := av[day]
		if !ok {
			errs = append(errs, ValidationError{
				Field:   "Availability",
				Message: fmt.Sprintf("missing entry for %s", day),
			})
			continue
		}
		if !window.Open {
			continue
		}
		if !timeOfDayRegex.MatchString(window.OpenTime) || !timeOfDayRegex.MatchString(window.CloseTime) {
			errs = append(errs, ValidationError{
				Field:   "Availability",
				Message: fmt.Sprintf("%s: open days require HH:MM open_time and close_time", day),
			})
			continue
		}
		if window.OpenTime > window.CloseTime {
			errs = append(errs, ValidationError{
				Field:   "Availability",
				Message: fmt.Sprintf("%s: open_time must not be after close_time", day),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *AssetValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA time zone", err.Field())
		case "valid_time_of_day":
			message = fmt.Sprintf("%s must be a wall-clock time in HH:MM format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
