package executor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Static errors for err113 compliance.
var (
	ErrNilRequest   = errors.New("request is required")
	ErrMissingField = errors.New("response is missing field")
)

// ValidationError describes one failed field constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidationErrors is returned by Validator.Validate.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Message)
	}

	return strings.Join(msgs, "; ")
}

// Validator checks `validate` struct tags, naming fields after their JSON tag.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator that reports fields by their wire name.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		const maxSplits = 2
		name := strings.SplitN(fld.Tag.Get("json"), ",", maxSplits)[0]

		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return &Validator{validate: v}
}

// RegisterValidation adds a custom tag.
func (v *Validator) RegisterValidation(tag string, fn validator.Func) error {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("registering validation %q: %w", tag, err)
	}

	return nil
}

// Validate checks structs and pointers to structs. Other values pass; a nil
// pointer fails with ErrNilRequest.
func (v *Validator) Validate(in any) error {
	value := reflect.ValueOf(in)

	if !value.IsValid() {
		return ErrNilRequest
	}

	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return ErrNilRequest
		}

		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return nil
	}

	if err := v.validate.Struct(value.Interface()); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return formatValidationErrors(validationErrs)
		}

		return fmt.Errorf("validating request: %w", err)
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	validationErrs := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		if field == "" {
			field = err.StructField()
		}

		validationErrs = append(validationErrs, ValidationError{
			Field:   field,
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
			Message: errorMessage(field, err),
		})
	}

	return validationErrs
}

func errorMessage(field string, err validator.FieldError) string {
	param := err.Param()

	switch err.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	default:
		return fmt.Sprintf("%s failed validation on '%s'", field, err.Tag())
	}
}
