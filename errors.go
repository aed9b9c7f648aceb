package main

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError sends the standard failure envelope.
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondServerError logs the fault and returns a generic 500. The detail
// is echoed only outside release mode.
func respondServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{"success": false, "error": "Internal Server Error"}
	if gin.Mode() != gin.ReleaseMode {
		body["detail"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// respondValidationError turns binding/validator failures into a 400 with
// one human message per violated field.
func respondValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	details := []string{err.Error()}
	if errors.As(err, &verrs) {
		details = details[:0]
		for _, fe := range verrs {
			details = append(details, fieldMessage(fe))
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Validation failed",
		"details": details,
	})
}

// fieldMessage phrases one violation the way the schema layer used to.
func fieldMessage(fe validator.FieldError) string {
	field := humanField(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s item", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "email":
		return "Please provide a valid email"
	case "url", "startswith":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s is not a valid value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// humanField splits a CamelCase struct field into words: "ShortDescription"
// becomes "Short description".
func humanField(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
