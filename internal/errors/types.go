package errors

// standardized error body returned by the backend
type ErrorResponse struct {
	Error   string              `json:"error"`             // error code (e.g., "unauthorized", "not_found")
	Message string              `json:"message"`           // user-friendly message
	Details string              `json:"details,omitempty"` // optional details
	Errors  map[string][]string `json:"errors,omitempty"`  // field-level validation errors
}

// standard error codes
const (
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeServerError     = "server_error"
	CodeBadRequest      = "bad_request"
	CodeConflict        = "conflict"
	CodeTooManyRequests = "too_many_requests"
)

// classifies a failed API call
type Kind string

const (
	KindNetwork    Kind = "network"    // no response received
	KindAuth       Kind = "auth"       // 401
	KindForbidden  Kind = "forbidden"  // 403
	KindNotFound   Kind = "not_found"  // 404
	KindValidation Kind = "validation" // 422
	KindClient     Kind = "client"     // any other 4xx
	KindServer     Kind = "server"     // 5xx
	KindRequest    Kind = "request"    // request could not be built
)

// user-facing messages for each failure path
const (
	MsgSessionExpired   = "Session expired, please log in again"
	MsgForbidden        = "You do not have permission to perform this action"
	MsgNotFound         = "Resource not found"
	MsgValidationFailed = "Validation failed"
	MsgServerError      = "Server error, please try again later"
	MsgNoResponse       = "No response from server, please check your connection"
)
