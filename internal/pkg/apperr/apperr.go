// Package apperr holds the error taxonomy shared by the API client, the checkout
// orchestrator and the media helper. Handlers switch on Kind to pick a status code
// and the notice shown to the user.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindNetwork        Kind = "network"
	KindProtocol       Kind = "protocol"
	KindBusiness       Kind = "business"
	KindConfiguration  Kind = "configuration"
	KindPartialFailure Kind = "partial_failure"
	KindInvalidFile    Kind = "invalid_file"
	KindDecode         Kind = "decode"
	KindUpload         Kind = "upload"
	KindInvalidURL     Kind = "invalid_url"
)

// Error carries a Kind, a message fit for the user and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status of the failed backend call, 0 when none was made.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so errors.Is(err, apperr.Network) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	Validation     = &Error{Kind: KindValidation}
	Network        = &Error{Kind: KindNetwork}
	Protocol       = &Error{Kind: KindProtocol}
	Business       = &Error{Kind: KindBusiness}
	Configuration  = &Error{Kind: KindConfiguration}
	PartialFailure = &Error{Kind: KindPartialFailure}
	InvalidFile    = &Error{Kind: KindInvalidFile}
	Decode         = &Error{Kind: KindDecode}
	Upload         = &Error{Kind: KindUpload}
	InvalidURL     = &Error{Kind: KindInvalidURL}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in the chain, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message returns the user-facing message of err, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// HTTPStatus maps a Kind to the status the BFF answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidFile, KindDecode, KindInvalidURL:
		return http.StatusBadRequest
	case KindBusiness:
		return http.StatusUnprocessableEntity
	case KindNetwork, KindProtocol, KindUpload:
		return http.StatusBadGateway
	case KindConfiguration:
		return http.StatusServiceUnavailable
	case KindPartialFailure:
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}
