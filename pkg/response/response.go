package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/unicampus/college-api/pkg/errors"
)

// Envelope is the uniform response contract: every endpoint, success or
// failure, answers with {success, message, data}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON sends a success response with the provided status and message.
func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

// Created responds with HTTP 201.
func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

// Error translates any error into the envelope. Unexpected errors collapse to
// a generic message; the wrapped cause stays server-side.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		message = "something went wrong"
	}
	c.JSON(appErr.Status, Envelope{Success: false, Message: message})
}
