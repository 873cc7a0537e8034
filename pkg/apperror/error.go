package apperror

import "net/http"

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Validation is a 400 carrying per-field messages.
func Validation(message string, details []string) *AppError {
	e := BadRequest(message)
	e.Details = details
	return e
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// Internal is a 500 whose message carries the failure description,
// prefixed by what the caller was doing.
func Internal(prefix string, err error) *AppError {
	msg := prefix
	if err != nil {
		msg = prefix + ": " + err.Error()
	}
	return New(http.StatusInternalServerError, msg, err)
}
