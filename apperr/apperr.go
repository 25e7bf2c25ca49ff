package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error is the single tagged error type carried out of service code:
// an HTTP status plus a user-facing message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Newf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// From normalizes any error into *Error, translating the common
// driver-level failures (bad ObjectID, duplicate key, no documents)
// into client-facing statuses. Everything else becomes a 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return BadRequest("Invalid id")
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("Not found")
	}
	if mongo.IsDuplicateKeyError(err) {
		return Conflict("Duplicate value for a unique field")
	}
	return New(http.StatusInternalServerError, "Something went wrong")
}

// IsDuplicateKey reports whether err is a MongoDB duplicate-key error.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
