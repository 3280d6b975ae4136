package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail describes one rejected field.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

type ValidationErrorData struct {
	Errors        []ValidationErrorDetail `json:"errors"`
	Documentation string                  `json:"documentation"`
}

const DocumentationLink = "/swagger/index.html"

// BindAndValidate binds the JSON body into obj. On failure it writes a 400
// with one detail per field and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	c.JSON(http.StatusBadRequest, Response{
		Status:  http.StatusBadRequest,
		Message: "Invalid request parameters",
		Data: ValidationErrorData{
			Errors:        describeBindError(obj, err),
			Documentation: DocumentationLink,
		},
	})
	return false
}

func describeBindError(obj interface{}, err error) []ValidationErrorDetail {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]ValidationErrorDetail, 0, len(fieldErrs))
		for _, e := range fieldErrs {
			details = append(details, describeFieldError(getJSONTagName(obj, e.StructField()), e))
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationErrorDetail{{
			Field:    typeErr.Field,
			Message:  fmt.Sprintf("Field '%s' has invalid type", typeErr.Field),
			Expected: typeErr.Type.String(),
			Received: typeErr.Value,
		}}
	}

	return []ValidationErrorDetail{{
		Field:    "body",
		Message:  "Malformed JSON or invalid request body",
		Expected: "valid JSON",
		Received: "invalid",
	}}
}

func describeFieldError(field string, e validator.FieldError) ValidationErrorDetail {
	detail := ValidationErrorDetail{
		Field:    field,
		Message:  fmt.Sprintf("Field '%s' failed on the '%s' rule", field, e.Tag()),
		Expected: e.Param(),
		Received: e.Value(),
	}
	if detail.Expected == "" {
		detail.Expected = e.Tag()
	}

	switch e.Tag() {
	case "required":
		detail.Message = fmt.Sprintf("Field '%s' is required", field)
		detail.Expected = "not empty"
	case "email":
		detail.Message = fmt.Sprintf("Field '%s' must be a valid email address", field)
		detail.Expected = "email format"
	case "min", "gte":
		detail.Message = fmt.Sprintf("Field '%s' must be at least %s", field, e.Param())
		detail.Expected = ">= " + e.Param()
	case "max", "lte":
		detail.Message = fmt.Sprintf("Field '%s' must be at most %s", field, e.Param())
		detail.Expected = "<= " + e.Param()
	case "oneof":
		detail.Message = fmt.Sprintf("Field '%s' must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "datetime":
		detail.Message = fmt.Sprintf("Field '%s' must use the %s layout", field, e.Param())
	}
	return detail
}

func getJSONTagName(obj interface{}, fieldName string) string {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fieldName
	}
	if f, ok := t.FieldByName(fieldName); ok {
		if tag := strings.Split(f.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
			return tag
		}
	}
	return fieldName
}
