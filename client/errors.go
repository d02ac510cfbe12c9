package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/saudapakka/saudapakka-mandate"
)

// ValidationError is a rejected creation payload, keyed by field.
type ValidationError struct {
	Fields  map[string][]string
	message string
}

func (e *ValidationError) Error() string { return e.message }

// invalid is a ValidationError raised before any request is sent.
func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}, message: msg}
}

// InvalidTransitionError is a transition refused by the server. Forbidden is set when
// the viewer may not perform it at all.
type InvalidTransitionError struct {
	Message   string
	Forbidden bool
}

func (e *InvalidTransitionError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthExpiredError means the session must be re-established through login.
type AuthExpiredError struct {
	Message string
}

func (e *AuthExpiredError) Error() string { return e.Message }

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// errorFromResponse classifies a failed response by status and body shape.
func errorFromResponse(status int, raw []byte) error {
	body := saudapakka.DecodeErrorBody(raw)
	msg := body.Text(saudapakka.GenericErrorMessage)

	switch status {
	case http.StatusUnauthorized:
		return &AuthExpiredError{Message: msg}
	case http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case http.StatusForbidden:
		return &InvalidTransitionError{Message: msg, Forbidden: true}
	case http.StatusBadRequest:
		if body.Message == "" && body.Detail == "" && body.Err == "" && len(body.Fields) > 0 {
			return &ValidationError{Fields: body.Fields, message: msg}
		}
		return &InvalidTransitionError{Message: msg}
	}
	return &APIError{Status: status, Message: msg}
}

// Message is the text to show the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		verr *ValidationError
		terr *InvalidTransitionError
		nerr *NotFoundError
		aerr *AuthExpiredError
		perr *APIError
	)
	switch {
	case errors.As(err, &verr):
		return verr.message
	case errors.As(err, &terr):
		return terr.Message
	case errors.As(err, &nerr):
		return nerr.Message
	case errors.As(err, &aerr):
		return aerr.Message
	case errors.As(err, &perr):
		return perr.Message
	}
	return saudapakka.GenericErrorMessage
}
