package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"milkrun/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsKeepsIdentity(t *testing.T) {
	detailed := ErrForbidden.WithDetails("vendor only")

	assert.True(t, errors.Is(detailed, ErrForbidden))
	assert.True(t, errors.Is(errors.Wrap(detailed, "load product"), ErrForbidden))
	assert.False(t, errors.Is(detailed, ErrNotAuthenticated))
	assert.Equal(t, "vendor only", detailed.Details())
	assert.Empty(t, ErrForbidden.Details())
}

func TestStorageError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.Wrap(NewStorageError(cause, "orders"), "place order")

	require.True(t, IsStorageError(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "storage failure on orders")

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode())
	assert.Equal(t, "STORAGE_UNAVAILABLE", appErr.ErrorCode())
	assert.Equal(t, "orders", appErr.Details())

	assert.False(t, IsStorageError(ErrOrderNotFound))
}
