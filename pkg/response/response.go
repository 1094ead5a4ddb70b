package response

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "edulearn/pkg/errors"
)

// Success writes a 200 envelope: {"success": true, ...payload}.
func Success(c echo.Context, payload echo.Map) error {
	return write(c, http.StatusOK, payload)
}

// Created writes a 201 envelope: {"success": true, ...payload}.
func Created(c echo.Context, payload echo.Map) error {
	return write(c, http.StatusCreated, payload)
}

// Message writes {"success": true, "message": msg} with the given status.
func Message(c echo.Context, status int, msg string) error {
	return write(c, status, echo.Map{"message": msg})
}

func write(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

// Error maps application and validation errors onto the uniform
// {"success": false, "message": ...} shape. Wrapped error detail is only
// exposed in development.
func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": validationMessage(validationErr),
		})
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Err != nil && os.Getenv("ENVIRONMENT") == "development" {
			msg = msg + ": " + appErr.Err.Error()
		}
		return c.JSON(appErr.Status, echo.Map{
			"success": false,
			"message": msg,
		})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "An unexpected error occurred",
	})
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return field + " must have at least " + err.Param() + " entries"
		case "email":
			return field + " must be a valid email address"
		case "oneof":
			return field + " must be one of: " + err.Param()
		default:
			return field + " is invalid"
		}
	}
	return "Invalid input data"
}
