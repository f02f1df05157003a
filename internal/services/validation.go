package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"alfredoptarigan/skillpilot/internal/models"
)

// Validator checks struct tags on both sides of a generation call. Caller
// input failures are ErrInvalidInput, model output failures ErrSchemaViolation.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) ValidateInput(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, describeValidation(err))
	}
	return nil
}

func (v *Validator) ValidateOutput(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", models.ErrSchemaViolation, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// Drop the root struct name so messages read "jobs[0].id".
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
