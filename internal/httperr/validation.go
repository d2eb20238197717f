package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// UseJSONFieldNames makes gin's validator report fields by their json name.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// ValidationError is a 400-class failure detected by a handler before any
// storage access.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Code
}

func Invalid(code, message string) error {
	return ValidationError{Code: code, Message: message}
}

func IsValidation(err error, code string) bool {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

// Validation writes a 400 for a binding failure or a ValidationError.
func Validation(c *gin.Context, err error) {
	var ve ValidationError
	if errors.As(err, &ve) {
		BadRequest(c, ve.Code, ve.Message)
		return
	}

	body := HTTPError{
		Code:    "invalid_request",
		Message: "Request body is invalid.",
	}

	var fieldErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		body.Code = "validation_failed"
		body.Message = "One or more fields are missing or invalid."
		for _, fe := range fieldErrs {
			body.Details = append(body.Details, describeField(fe))
		}
	case errors.As(err, &typeErr):
		body.Details = []string{fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)}
	case errors.As(err, &syntaxErr):
		body.Message = "Request body is not valid JSON."
	}

	c.JSON(http.StatusBadRequest, body)
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
