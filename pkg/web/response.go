// Package web defines common components for a web application.
package web

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string    `json:"access_token,omitempty"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at,omitempty"`
	Data                 any       `json:"data,omitempty"`
	Error                string    `json:"error,omitempty"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns a readable message for the first failed validation.
func GetErrorMsg(ve validator.ValidationErrors) string {
	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field.Field(), field.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field.Field(), field.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field.Field(), field.Param())
	case "numeric":
		return field.Field() + " must be numeric"
	case "alphanum":
		return field.Field() + " must be alphanumeric"
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field.Field(), field.Param())
	}

	return field.Field() + " is invalid"
}
