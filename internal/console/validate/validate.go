// Package validate checks form input before it is dispatched. A form that
// fails here never reaches the store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// loginPattern accepts an email-like login or a plain one.
var loginPattern = regexp.MustCompile(
	"^[a-zA-Z0-9!$&*+=?^_`{|}~.-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*$|^[_.@A-Za-z0-9-]+$",
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("login", func(fl validator.FieldLevel) bool {
		return loginPattern.MatchString(fl.Field().String())
	})
	return v
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Login        string `form:"login" validate:"required,min=1,max=50,login"`
	Email        string `form:"email" validate:"required,min=5,max=254,email"`
	Password     string `form:"password" validate:"required,min=4,max=50"`
	Confirmation string `form:"confirmation" validate:"required,eqfield=Password"`
}

type ResetInitForm struct {
	Email string `form:"email" validate:"required,min=5,max=254,email"`
}

type ResetFinishForm struct {
	Key          string `form:"key" validate:"required"`
	NewPassword  string `form:"new password" validate:"required,min=4,max=50"`
	Confirmation string `form:"confirmation" validate:"required,eqfield=NewPassword"`
}

type PasswordForm struct {
	CurrentPassword string `form:"current password" validate:"required"`
	NewPassword     string `form:"new password" validate:"required,min=4,max=50"`
	Confirmation    string `form:"confirmation" validate:"required,eqfield=NewPassword"`
}

type SettingsForm struct {
	FirstName string `form:"first name" validate:"required,min=1,max=50"`
	LastName  string `form:"last name" validate:"required,min=1,max=50"`
	Email     string `form:"email" validate:"required,min=5,max=254,email"`
}

// UserForm is the administrator's create and edit form.
type UserForm struct {
	Login       string   `form:"login" validate:"required,min=1,max=50,login"`
	FirstName   string   `form:"first name" validate:"max=50"`
	LastName    string   `form:"last name" validate:"max=50"`
	Email       string   `form:"email" validate:"required,min=5,max=254,email"`
	Authorities []string `form:"authorities" validate:"dive,required"`
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Error lists every failed rule of a form.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Form checks one of the form structs of this package. It returns an
// *Error when any rule fails.
func Form(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters", field, fe.Param())
	case "email":
		return field + " is not a valid email address"
	case "login":
		return field + " may only contain letters, digits and _.@- or be an email address"
	case "eqfield":
		return "the password and its confirmation do not match"
	}
	return fmt.Sprintf("%s fails %s", field, fe.Tag())
}
