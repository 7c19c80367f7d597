package bankapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2/utils"
)

const (
	// FallbackStatus is reported when no response object is available.
	FallbackStatus = "00"
	// FallbackStatusText accompanies FallbackStatus.
	FallbackStatusText = "Ocurrió un error"
)

// ErrInvalidPayload is returned, wrapped, when a request DTO fails validation. No
// request is sent in that case.
var ErrInvalidPayload = errors.New("invalid payload")

// APIError is the normalized rejection for every failed backend call: a non-2xx
// status, or no usable response at all (network failure, undecodable body,
// canceled context).
type APIError struct {
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
	Err        bool   `json:"err"`

	cause error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("bankapi: %s %s: %v", e.Status, e.StatusText, e.cause)
	}
	return fmt.Sprintf("bankapi: %s %s", e.Status, e.StatusText)
}

// Unwrap exposes the transport cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Code returns the numeric HTTP status, or 0 when no response was received.
func (e *APIError) Code() int {
	code, err := strconv.Atoi(e.Status)
	if err != nil {
		return 0
	}
	return code
}

// IsStatus reports whether err is an APIError carrying the given HTTP status.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code() == code
}

func rejectResponse(code int) *APIError {
	status := FallbackStatus
	if code != 0 {
		status = strconv.Itoa(code)
	}
	text := utils.StatusMessage(code)
	if text == "" {
		text = FallbackStatusText
	}
	return &APIError{Status: status, StatusText: text, Err: true}
}

func rejectWithoutResponse(cause error) *APIError {
	return &APIError{Status: FallbackStatus, StatusText: FallbackStatusText, Err: true, cause: cause}
}
