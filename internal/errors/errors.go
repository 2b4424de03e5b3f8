package errors

import (
	"net/http"
	"regexp"
	"strings"

	"codeberg.org/fleetdesk/console/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For the mock backend (gin handlers):
//   - Use errors.NotFound(), errors.Unprocessable(), etc. so every failure carries
//     the ErrorResponse body the console expects
//   - Use errors.InternalError() for unexpected failures; it logs and responds
//
// For the console (gateway, facades, tui):
//   - The gateway turns every failed call into *APIError or *ValidationError and
//     notifies the user before returning it
//   - Facades return gateway errors unchanged; callers use errors.As to inspect them
//   - Internal packages wrap with fmt.Errorf("context: %w", err) and do not log

// numeric or UUID path identifiers
var idRegex = regexp.MustCompile(`^([0-9]+|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
		Error:   CodeForbidden,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

// returns a 422 with field-level errors
func Unprocessable(c *gin.Context, message string, fields map[string][]string) {
	if message == "" {
		message = "the given data was invalid"
	}

	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Errors:  fields,
	})
}

// returns a 409 conflict error
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}

	c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
		Error:   CodeConflict,
		Message: message,
	})
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
	})
}

// validates a path identifier and returns 404 if it is malformed
func ValidatePathID(c *gin.Context, paramName, resource string) (string, bool) {
	id := c.Param(paramName)

	if id == "" {
		BadRequest(c, "missing "+paramName, nil)
		return "", false
	}

	if !idRegex.MatchString(strings.ToLower(id)) {
		NotFound(c, resource)
		return "", false
	}

	return id, true
}
