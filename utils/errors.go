package utils

import (
	"errors"
	"net/http"
)

// CustomError carries the HTTP status a failure should be reported with.
type CustomError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError builds a CustomError with a status code and message.
func NewCustomError(statusCode int, message string) *CustomError {
	return &CustomError{StatusCode: statusCode, Message: message}
}

// BadRequest wraps err as a 400 that shows err's message to the client.
func BadRequest(err error) *CustomError {
	return &CustomError{StatusCode: http.StatusBadRequest, Message: err.Error(), Err: err}
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return http.StatusInternalServerError
}
