package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// emailShape is the deliberately loose local@domain.tld check used by the forms.
var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// FormValidator runs the client-side checks that gate every identity API call.
type FormValidator struct {
	v *validator.Validate
}

// NewFormValidator returns a validator that reports fields by their json name.
func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &FormValidator{v: v}
}

// LoginForm is the login screen payload.
type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email_shape"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterForm is the registration screen payload.
type RegisterForm struct {
	Name     string `json:"name" form:"name" validate:"required,min=2"`
	Email    string `json:"email" form:"email" validate:"required,email_shape"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// ProfileForm is the profile and admin edit payload. Empty fields mean "unchanged".
type ProfileForm struct {
	Name     string      `json:"name" form:"name" validate:"omitempty,min=2"`
	Email    string      `json:"email" form:"email" validate:"omitempty,email_shape"`
	Password string      `json:"password" form:"password" validate:"omitempty,min=6"`
	Role     domain.Role `json:"role" form:"role" validate:"omitempty,oneof=admin user"`
}

// CreateUserForm is the admin "new user" payload.
type CreateUserForm struct {
	Name     string      `json:"name" form:"name" validate:"required,min=2"`
	Email    string      `json:"email" form:"email" validate:"required,email_shape"`
	Password string      `json:"password" form:"password" validate:"required,min=6"`
	Role     domain.Role `json:"role" form:"role" validate:"omitempty,oneof=admin user"`
}

// Validate returns a *domain.ValidationError keyed by field, or nil.
func (fv *FormValidator) Validate(form any) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email_shape":
		return field + " is invalid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
