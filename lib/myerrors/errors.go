package myerrors

import (
	"errors"
	"fmt"
	"log"
	"net/http"
)

const (
	genericMessage       = "An unexpected error occurred"
	configurationMessage = "Server configuration error. Please contact support."
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type publicMessager interface {
	GetPublicMessage() string
}

type httpError struct {
	httpCode      int
	err           error
	publicMessage string
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

// GetPublicMessage returns the text that may be shown to the caller.
func (e httpError) GetPublicMessage() string {
	if e.publicMessage != "" {
		return e.publicMessage
	}
	return e.err.Error()
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

func NewInvalidInputError(err error) *httpError {
	log.Printf("Returning 400: %s", err.Error())
	return newError(http.StatusBadRequest, err)
}

func NewInvalidInputErrorWithMessage(err error, publicMessage string) *httpError {
	e := NewInvalidInputError(err)
	e.publicMessage = publicMessage
	return e
}

func NewMethodNotAllowedError(err error) *httpError {
	return newError(http.StatusMethodNotAllowed, err)
}

func NewTooManyRequestsError(err error) *httpError {
	return newError(http.StatusTooManyRequests, err)
}

// NewConfigurationError hides the detail of err from the caller.
func NewConfigurationError(err error) *httpError {
	e := newError(http.StatusInternalServerError, err)
	e.publicMessage = configurationMessage
	return e
}

func NewUpstreamError(err error, publicMessage string) *httpError {
	e := newError(http.StatusInternalServerError, err)
	e.publicMessage = publicMessage
	return e
}

func NewInternalError(err error) *httpError {
	e := newError(http.StatusInternalServerError, err)
	e.publicMessage = genericMessage
	return e
}

func NewUnavailableError(err error) *httpError {
	return newError(http.StatusServiceUnavailable, err)
}

func GetHTTPStatus(err error) int {
	var coder httpErrorCoder
	if err != nil && errors.As(err, &coder) {
		return coder.GetHTTPErrorCode()
	}
	return http.StatusInternalServerError
}

func GetPublicMessage(err error) string {
	var messager publicMessager
	if err != nil && errors.As(err, &messager) {
		return messager.GetPublicMessage()
	}
	return genericMessage
}
