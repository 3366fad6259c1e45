package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the envelope of every error response. Details is a string or
// a list of field errors.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// List sends a 200 response with a JSON array, never null.
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error aborts with status and an ErrorBody.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message, Details: details})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string, details interface{}) {
	Error(c, http.StatusBadRequest, message, details)
}

// ValidationFailed sends a 400 carrying every field violation.
func ValidationFailed(c *gin.Context, violations interface{}) {
	Error(c, http.StatusBadRequest, "Validation failed", violations)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not Found", "the requested resource does not exist")
}

// NotFoundMsg sends a 404 error with a custom detail.
func NotFoundMsg(c *gin.Context, details string) {
	Error(c, http.StatusNotFound, "Not Found", details)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, "Method Not Allowed", c.Request.Method+" is not supported on "+c.Request.URL.Path)
}

// BadGateway sends a 502 when an upstream dependency failed.
func BadGateway(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadGateway, message, err.Error())
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, message, err.Error())
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "Too Many Requests", "slow down and retry in a second")
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, details string) {
	Error(c, http.StatusConflict, "Conflict", details)
}
