package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fieldCaser = cases.Title(language.English)

// humanField turns staff_id, StaffID or leaveType into "Staff Id" style labels.
func humanField(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune(' ')
			continue
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]):
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return fieldCaser.String(b.String())
}

// MapValidationError turns the first binding failure into an AppError.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return fieldError(errs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return New(CodeInvalidInput,
			fmt.Sprintf("%s must be a %s", humanField(typeErr.Field), typeErr.Type.Kind()),
			http.StatusBadRequest)
	}

	return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
}

func fieldError(e validator.FieldError) *AppError {
	field := humanField(e.Field())
	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "oneof":
		return New(CodeInvalidInput,
			fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(e.Param()), ", ")),
			http.StatusBadRequest)
	case "max":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be at most %s characters", field, e.Param()), http.StatusBadRequest)
	case "email":
		return New(CodeInvalidInput, field+" must be a valid email", http.StatusBadRequest)
	case "uuid":
		return New(CodeInvalidInput, field+" must be a valid id", http.StatusBadRequest)
	default:
		return InvalidField(field)
	}
}
