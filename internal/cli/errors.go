package cli

import (
	"errors"
	"net"

	"github.com/luxcatalog/lux/internal/catalog"
	"github.com/luxcatalog/lux/internal/client"
	"github.com/luxcatalog/lux/internal/codec"
	"github.com/luxcatalog/lux/internal/query"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrInvalidInput  = "INVALID_INPUT"

	ErrObjectNotFound = "OBJECT_NOT_FOUND"

	ErrStoreNotFound = "STORE_NOT_FOUND"
	ErrDatabaseError = "DATABASE_ERROR"

	ErrServerUnavailable = "SERVER_UNAVAILABLE"
	ErrNoResponse        = "NO_RESPONSE"
	ErrProtocol          = "PROTOCOL_ERROR"

	ErrFileWriteError = "FILE_WRITE_ERROR"

	ErrInternal = "INTERNAL_ERROR"
)

// errorCode classifies err from a list or show exchange.
func errorCode(err error) string {
	var storeErr *query.StoreError
	var opErr *net.OpError
	switch {
	case errors.Is(err, catalog.ErrStoreNotFound):
		return ErrStoreNotFound
	case errors.As(err, &storeErr):
		return ErrDatabaseError
	case errors.Is(err, client.ErrNoResponse):
		return ErrNoResponse
	case codec.IsDecodeError(err):
		return ErrProtocol
	case errors.As(err, &opErr):
		return ErrServerUnavailable
	}
	return ErrInternal
}

// errorSuggestion returns a hint for the error codes users can act on.
func errorSuggestion(code string) string {
	switch code {
	case ErrStoreNotFound:
		return "Pass --db with the path of a catalog store, or create one with 'lux db init'"
	case ErrServerUnavailable:
		return "Start a server with 'lux serve', or query the store directly with --db"
	case ErrNoResponse:
		return "The server could not answer; check its log"
	}
	return ""
}
