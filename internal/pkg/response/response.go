// Package response renders the API envelope shared by every endpoint:
// success bodies are {success:true, data, message} and failures are
// {success:false, message, error?, errors?}. Existing clients depend on this
// exact shape, so handlers never write JSON directly.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unispace-app/unispace-backend/internal/pkg/apperror"
)

// Envelope is the standard success body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// ErrorEnvelope is the standard failure body.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Fail sends a failure envelope with the given status code.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorEnvelope{Success: false, Message: message})
}

// ValidationFailed sends a 400 failure envelope carrying per-field messages.
func ValidationFailed(c *gin.Context, errs []string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Success: false,
		Message: "Validation errors",
		Errors:  errs,
	})
}

// Error maps an error to the failure envelope. AppErrors keep their status
// code and message; anything else becomes an opaque 500 so internal detail
// never reaches production responses.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorEnvelope{Success: false, Message: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Success: false,
		Message: "Internal server error",
	})
}
