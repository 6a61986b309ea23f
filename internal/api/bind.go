package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, payloadError(dst, err))
		return false
	}
	return true
}

// payloadError names failing fields by their JSON keys. Decoder errors are
// reduced to the bare sentinel since they quote Go type names.
func payloadError(dst any, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errInvalidPayload
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, jsonField(t, fe.StructField())+" "+describeRule(fe))
	}
	return fmt.Errorf("%w: %s", errInvalidPayload, strings.Join(problems, ", "))
}

func jsonField(t reflect.Type, name string) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(name); ok {
			tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if tag != "" && tag != "-" {
				return tag
			}
		}
	}
	return strings.ToLower(name)
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "gte":
		return "must be " + fe.Param() + " or more"
	}
	return "is invalid"
}
