package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	notFound := NotFound("review", "rev-1")
	assert.Contains(t, notFound.Error(), "review with id rev-1 not found")
	assert.ErrorIs(t, notFound, ErrNotFound)

	wrapped := fmt.Errorf("load review: %w", notFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("review", "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("rating out of range")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(InvalidState("already approved")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("summary lock contention")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(AlreadyExists("product", "sku", "SKU-1")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal(errors.New("boom"))))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("get: %w", ErrNotFound)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("approve: %w", ErrInvalidState)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("create: %w", ErrInvalidInput)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("opaque")))
}
