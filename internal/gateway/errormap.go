package gateway

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "codeberg.org/fleetdesk/console/internal/errors"
	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/session"
)

// default response handler: unwraps successful bodies and turns failures
// into a notification plus a typed error
type ErrorMapper struct {
	Session   *session.Session
	Notifier  notify.Notifier
	Navigator Navigator
}

func (m *ErrorMapper) Handle(req *Request, resp *Response, err error) ([]byte, error) {
	if err != nil {
		return nil, m.transportFailure(req, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}

	kind := apierrors.Classify(resp.StatusCode)
	bodyMessage := apierrors.BodyMessage(resp.Body)

	var message string

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		message = apierrors.MsgSessionExpired
		if m.Session != nil {
			m.Session.Clear()
		}
		if m.Navigator != nil {
			m.Navigator.Navigate(LoginPath)
		}

	case resp.StatusCode == http.StatusForbidden:
		message = apierrors.MsgForbidden

	case resp.StatusCode == http.StatusNotFound:
		message = apierrors.MsgNotFound

	case resp.StatusCode == http.StatusUnprocessableEntity:
		ve := apierrors.ParseValidationError(resp.Body)
		m.notify(ve.Error())
		return nil, ve

	case resp.StatusCode >= http.StatusInternalServerError:
		message = apierrors.MsgServerError

	case bodyMessage != "":
		message = bodyMessage

	default:
		message = fmt.Sprintf("Request failed (status %d)", resp.StatusCode)
	}

	logger.Debug("api request failed",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"kind", kind,
	)

	m.notify(message)

	return nil, &apierrors.APIError{
		Kind:    kind,
		Status:  resp.StatusCode,
		Message: message,
		Body:    resp.Body,
	}
}

func (m *ErrorMapper) transportFailure(req *Request, err error) error {
	var be *buildError
	if errors.As(err, &be) {
		m.notify(be.Error())
		return &apierrors.APIError{
			Kind:    apierrors.KindRequest,
			Message: be.Error(),
			Err:     be.err,
		}
	}

	logger.Debug("api request got no response",
		"method", req.Method,
		"path", req.Path,
		"category", apierrors.TransportCategory(err),
		"error", err,
	)

	m.notify(apierrors.MsgNoResponse)

	return &apierrors.APIError{
		Kind:    apierrors.KindNetwork,
		Message: apierrors.MsgNoResponse,
		Err:     err,
	}
}

func (m *ErrorMapper) notify(message string) {
	if m.Notifier != nil {
		m.Notifier.Notify(notify.LevelError, message)
	}
}
