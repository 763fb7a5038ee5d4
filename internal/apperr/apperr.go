package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION"
	ErrorCodeAuth            ErrorCode = "AUTH"
	ErrorCodePermission      ErrorCode = "PERMISSION"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeConnectivity    ErrorCode = "CONNECTIVITY"
	ErrorCodeTimeout         ErrorCode = "TIMEOUT"
	ErrorCodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
)

// AppError is a user-presentable error with the HTTP status to respond with.
type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code ErrorCode, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// FromTransport classifies a failure that happened before any HTTP response
// arrived: a deadline becomes a timeout, everything else connectivity.
func FromTransport(err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Status:  http.StatusGatewayTimeout,
			Code:    ErrorCodeTimeout,
			Message: "booking service timed out",
			Err:     err,
		}
	}
	return &AppError{
		Status:  http.StatusBadGateway,
		Code:    ErrorCodeConnectivity,
		Message: "cannot reach booking service",
		Err:     err,
	}
}

// FromUpstreamStatus maps a status code returned by the booking API into the
// error taxonomy. Status 0 means the transport failed before any response.
func FromUpstreamStatus(status int, detail string) *AppError {
	switch {
	case status == 0:
		return New(http.StatusBadGateway, ErrorCodeConnectivity, "cannot reach booking service")
	case status == http.StatusUnauthorized:
		return New(http.StatusUnauthorized, ErrorCodeAuth, "session expired or invalid, please log in again")
	case status == http.StatusForbidden:
		return New(http.StatusForbidden, ErrorCodePermission, "access denied")
	case status == http.StatusNotFound:
		return New(http.StatusNotFound, ErrorCodeNotFound, "resource not found")
	}
	msg := "booking service error"
	if detail != "" {
		msg = detail
	}
	return New(http.StatusBadGateway, ErrorCodeInternalFailure, msg)
}

// Send writes err as a JSON error response. Unrecognized errors become a
// generic 500 without leaking internals to the caller.
func Send(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal Server Error",
		"code":  ErrorCodeInternalFailure,
	})
}
