// Package errors provides coded errors shared by the shell packages.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Token errors
	CodeTokenMissing Code = "TOKEN_MISSING"
	CodeTokenCorrupt Code = "TOKEN_CORRUPT"

	// Session errors
	CodeSessionDecodeFailed Code = "SESSION_DECODE_FAILED"

	// Remote authority errors
	CodeRemoteUnauthorized Code = "REMOTE_UNAUTHORIZED"
	CodeRemoteUnavailable  Code = "REMOTE_UNAVAILABLE"

	// Storage errors
	CodeStorageFailure Code = "STORAGE_FAILURE"

	// Request errors
	CodeInvalidInput Code = "INVALID_INPUT"
)

// HTTPStatus maps a code onto the status the shell answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput, CodeTokenCorrupt, CodeSessionDecodeFailed:
		return http.StatusBadRequest
	case CodeTokenMissing, CodeRemoteUnauthorized:
		return http.StatusUnauthorized
	case CodeRemoteUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
