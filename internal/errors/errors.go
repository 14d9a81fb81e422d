package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the uniform error body: a short machine-readable kind plus a
// message suitable for direct display.
type APIError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Respond sends an error response with the given status.
func Respond(c *gin.Context, statusCode int, kind, message string) {
	c.JSON(statusCode, APIError{Kind: kind, Message: message})
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	Respond(c, http.StatusUnauthorized, "Unauthorized", message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, kind, message string) {
	Respond(c, http.StatusForbidden, kind, message)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, kind, message string) {
	Respond(c, http.StatusNotFound, kind, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, kind, message string) {
	Respond(c, http.StatusBadRequest, kind, message)
}

// ServerError sends a 500 response. The body is deliberately generic; detail
// belongs in the server log, not the response.
func ServerError(c *gin.Context) {
	Respond(c, http.StatusInternalServerError, "Server error", "An unexpected error occurred")
}
