package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/simrank/internal/adapters/repository"
	"github.com/okian/simrank/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// badRequest wraps a description of what was wrong with the request.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// classify returns the status and error code for err.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "dataset_not_found"
	case errors.Is(err, model.ErrDuplicateUser):
		return http.StatusBadRequest, "duplicate_user"
	case errors.Is(err, model.ErrIntegrity):
		return http.StatusBadRequest, "integrity"
	case errors.Is(err, model.ErrOverflow):
		return http.StatusBadRequest, "overflow"
	case errors.Is(err, model.ErrMalformedInput):
		return http.StatusBadRequest, "malformed_input"
	case errors.Is(err, repository.ErrInvalidName), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrFull):
		return http.StatusInsufficientStorage, "store_full"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
