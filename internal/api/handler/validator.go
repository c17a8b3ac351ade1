package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/wildguard/console/internal/pkg/validation"
)

// NewValidator returns the form validator behind c.Validate.
func NewValidator() echo.Validator {
	return validation.New()
}
