// Package apperr defines the application error taxonomy and its uniform JSON
// rendering. Every failure response carries a fresh error_id for correlating
// client reports with server logs; internal detail stays server-side.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Stable symbolic error codes exposed to clients.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeDatabase        = "DATABASE_ERROR"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
	CodeConfig          = "CONFIG_ERROR"
	CodeExternal        = "EXTERNAL_SERVICE_ERROR"
)

// Error is the application error type carried from services to the HTTP
// boundary. Message is safe to show to clients; Err is not.
type Error struct {
	Code    string
	Status  int
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string, details map[string]string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusUnprocessableEntity, Message: message, Details: details}
}

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

// PayloadTooLarge rejects request bodies over the configured size cap.
func PayloadTooLarge() *Error {
	return &Error{Code: CodePayloadTooLarge, Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
}

// Database wraps a storage fault. The client sees a generic message only.
func Database(message string, err error) *Error {
	return &Error{Code: CodeDatabase, Status: http.StatusInternalServerError, Message: "a database error occurred", Err: wrapMsg(message, err)}
}

// Internal wraps a server-side fault such as a hashing or signing failure.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "an internal server error occurred", Err: wrapMsg(message, err)}
}

func Config(message string) *Error {
	return &Error{Code: CodeConfig, Status: http.StatusInternalServerError, Message: "a configuration error occurred", Err: errors.New(message)}
}

func External(service string, err error) *Error {
	return &Error{Code: CodeExternal, Status: http.StatusBadGateway, Message: "external service '" + service + "' is unavailable", Err: err}
}

type labeled struct {
	msg string
	err error
}

func (l *labeled) Error() string {
	if l.err != nil {
		return l.msg + ": " + l.err.Error()
	}
	return l.msg
}

func (l *labeled) Unwrap() error { return l.err }

func wrapMsg(msg string, err error) error {
	if msg == "" {
		return err
	}
	return &labeled{msg: msg, err: err}
}

type body struct {
	ErrorID   string            `json:"error_id"`
	ErrorCode string            `json:"error_code"`
	Error     string            `json:"error"`
	Details   map[string]string `json:"details,omitempty"`
}

// Respond renders err as the uniform error body and writes the response.
// Unrecognized errors become 500 INTERNAL_SERVER_ERROR. Server faults are
// logged with the full causal chain; client-fixable failures at debug level.
func Respond(c *gin.Context, log *logrus.Logger, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal("", err)
	}

	errorID := uuid.NewString()
	logWithChain(c, log, appErr, errorID)

	c.AbortWithStatusJSON(appErr.Status, body{
		ErrorID:   errorID,
		ErrorCode: appErr.Code,
		Error:     appErr.Message,
		Details:   appErr.Details,
	})
}

func logWithChain(c *gin.Context, log *logrus.Logger, appErr *Error, errorID string) {
	if log == nil {
		return
	}
	fields := logrus.Fields{
		"error_id":   errorID,
		"error_code": appErr.Code,
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	}
	entry := log.WithFields(fields)

	if appErr.Status < http.StatusInternalServerError && appErr.Code != CodeExternal {
		entry.Debug(appErr.Message)
		return
	}

	entry.Error(appErr.Error())
	depth := 1
	for cause := errors.Unwrap(appErr.Err); cause != nil; cause = errors.Unwrap(cause) {
		log.WithFields(logrus.Fields{"error_id": errorID, "depth": depth}).Errorf("caused by: %v", cause)
		depth++
	}
}
