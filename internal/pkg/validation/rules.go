// Package validation registers custom struct rules and renders validator errors.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
)

// MinBatchYear is the earliest accepted graduation year
const MinBatchYear = 1950

// Register installs the custom rules on v and reports fields by their json name
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	rules := map[string]validator.Func{
		"signuprole": validateSignupRole,
		"anyrole":    validateAnyRole,
		"batchyear":  validateBatchYear,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterWithGin installs the rules on gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

// student or alumni; admins are provisioned, never self registered
func validateSignupRole(fl validator.FieldLevel) bool {
	role, ok := models.ParseRole(fl.Field().String())
	return ok && role != models.RoleAdmin
}

func validateAnyRole(fl validator.FieldLevel) bool {
	_, ok := models.ParseRole(fl.Field().String())
	return ok
}

func validateBatchYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinBatchYear && year <= int64(time.Now().Year()+6)
}

// Describe converts validator errors into per-field messages; other errors yield nil
func Describe(err error) *dto.ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := dto.NewValidationErrors()
	for _, fe := range verrs {
		out.AddError(fe.Field(), message(fe))
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "signuprole":
		return e.Field() + " must be student or alumni"
	case "anyrole":
		return e.Field() + " must be student, alumni or admin"
	case "batchyear":
		return e.Field() + " is not a plausible batch year"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
