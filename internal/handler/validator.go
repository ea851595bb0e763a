package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/cinebook/internal/service"
)

// looseEmail is the address check used at registration: something, an @,
// something, a dot, something.
var looseEmail = regexp.MustCompile(`.+@.+\..+`)

// Messages for field/tag pairs that don't use the generic wording.
var fieldMessages = map[string]string{
	"email.looseemail": "Please enter a valid email address",
	"password.min":     "Password must be at least 6 characters long",
}

// RequestValidator adapts validator/v10 to echo.Validator.  Failures come
// back as a single service validation error with every field message joined.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return service.Internal(err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, fieldMessage(fe))
	}
	return service.Validation(msgs...)
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Tag() == "required" {
		return fmt.Sprintf("Path `%s` is required.", fe.Field())
	}
	return fmt.Sprintf("Path `%s` is invalid.", fe.Field())
}
