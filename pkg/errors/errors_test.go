package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesSentinelByCode(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewInsufficientAllowance("user-1", 0))

	assert.True(t, stderrors.Is(err, ErrInsufficientAllowance))
	assert.False(t, stderrors.Is(err, ErrGenerationFailed))
	assert.Equal(t, http.StatusPaymentRequired, StatusOf(err))
	assert.Equal(t, CodeInsufficientAllowance, CodeOf(err))
}

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewStorageFailure("create", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "create", err.Context["operation"])
}

func TestCacheErrorExposesAppError(t *testing.T) {
	err := NewCacheError("failed to get", "get", "k", stderrors.New("boom"))

	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, CodeCache, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestForeignErrorDefaults(t *testing.T) {
	err := stderrors.New("plain")

	assert.Equal(t, CodeService, CodeOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.False(t, HasCode(err, CodeNotFound))
}
