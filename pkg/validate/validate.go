package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/nukrstore/nukr-backend/pkg/errors"
)

// pkPhonePattern accepts Pakistani mobile numbers like 03001234567 or
// 0300-1234567.
var pkPhonePattern = regexp.MustCompile(`^03\d{2}-?\d{7}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("pkphone", func(fl validator.FieldLevel) bool {
		return pkPhonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("registering pkphone rule: %v", err))
	}
	return v
}

// Struct validates dest's `validate` tags and converts failures into a coded
// validation error with per-field details.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "pkphone":
		return "must be a valid phone number (e.g. 0300-1234567)"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
