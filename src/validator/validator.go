package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator *validator.Validate
}

// ValidationError はバリデーションエラーの詳細情報
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return ve.Errors[0].Message
}

// maxIDLength bounds path identifiers before they reach the store
const maxIDLength = 64

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	cv := &CustomValidator{validator: v}

	// JSONやフォームのキー名でエラーを報告する
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	v.RegisterValidation("safe_text", validateSafeText)

	return cv
}

// Validate validates a struct and returns detailed error information
func (cv *CustomValidator) Validate(s interface{}) error {
	err := cv.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	result := ValidationErrors{Errors: make([]ValidationError, 0, len(fieldErrors))}
	for _, fe := range fieldErrors {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: generateErrorMessage(fe),
		})
	}
	return result
}

// ValidateID checks a path identifier. Well-formed but unknown IDs are left to the store.
func (cv *CustomValidator) ValidateID(field, id string) error {
	if err := cv.validator.Var(id, fmt.Sprintf("required,max=%d,printascii", maxIDLength)); err != nil {
		return ValidationErrors{Errors: []ValidationError{{
			Field:   field,
			Tag:     "id",
			Message: fmt.Sprintf("%s is invalid.", field),
		}}}
	}
	return nil
}

// validateSafeText rejects control characters other than tab, newline and carriage return
func validateSafeText(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
		if r == 127 {
			return false
		}
	}
	return true
}

// generateErrorMessage generates user-friendly error messages
func generateErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	case "safe_text":
		return fmt.Sprintf("%s contains invalid characters.", field)
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}
