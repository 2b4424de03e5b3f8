package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// returned by the gateway for every failed call except validation failures
type APIError struct {
	Kind    Kind
	Status  int    // 0 when no response was received
	Message string // the message shown to the user
	Body    []byte // raw response body, if any
	Err     error  // underlying transport or encoding error, if any
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// returned for HTTP 422. it carries the response body itself so callers can
// render field-level errors.
type ValidationError struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Raw     json.RawMessage     `json:"-"`
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return MsgValidationFailed
	}

	return e.Message
}

// returns the errors reported for one field
func (e *ValidationError) Field(name string) []string {
	return e.Errors[name]
}

// decodes a 422 body. the raw bytes are kept verbatim even when the body is
// not the expected {message, errors} shape.
func ParseValidationError(body []byte) *ValidationError {
	ve := &ValidationError{Raw: append(json.RawMessage(nil), body...)}

	var parsed struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ve
	}

	ve.Message = parsed.Message

	// errors may be {field: ["msg"]} or {field: "msg"}
	if len(parsed.Errors) > 0 {
		var multi map[string][]string
		if err := json.Unmarshal(parsed.Errors, &multi); err == nil {
			ve.Errors = multi
		} else {
			var single map[string]string
			if err := json.Unmarshal(parsed.Errors, &single); err == nil {
				ve.Errors = make(map[string][]string, len(single))
				for k, v := range single {
					ve.Errors[k] = []string{v}
				}
			}
		}
	}

	return ve
}

// maps an HTTP status to its failure kind
func Classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= http.StatusInternalServerError:
		return KindServer
	case status == 0:
		return KindNetwork
	default:
		return KindClient
	}
}

// extracts the "message" field from an error body, if present
func BodyMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	// only message is decoded so sibling fields of any shape are tolerated
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}

	return resp.Message
}
