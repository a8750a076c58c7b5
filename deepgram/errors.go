package deepgram

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("deepgram api key is required")
	ErrMissingURL    = errors.New("an api url is required")
	ErrInvalidURL    = errors.New("invalid api url")

	ErrUnknownSource   = errors.New("Unknown transcription source type")
	ErrMissingMimetype = errors.New("Mimetype must be provided if the source is a Buffer or a Readable")
)

// Error is the failure half of a Response.
type Error struct {
	Message string
	// HTTP status of the response, 0 if no response was received
	Status int
	// err_code and request_id from the API's error body, when it sent one
	Code      string
	RequestID string

	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown deepgram error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error) *Error {
	return &Error{Message: err.Error(), Err: err}
}

func wrapError(err error, format string, args ...any) *Error {
	return newError(fmt.Errorf(format+": %w", append(args, err)...))
}

// apiErrorBody is what the API sends alongside non-2xx statuses.
type apiErrorBody struct {
	ErrCode   string `json:"err_code"`
	ErrMsg    string `json:"err_msg"`
	RequestID string `json:"request_id"`
}
