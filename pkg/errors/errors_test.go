package errors

import (
	"database/sql"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsCodeAndMatchesSentinel(t *testing.T) {
	err := Clone(ErrInvalidArgument, "teacher id required")

	assert.Equal(t, "teacher id required", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, stdErrors.Is(err, ErrInvalidArgument))
	assert.False(t, stdErrors.Is(err, ErrInvalidFormat))
	assert.Equal(t, "invalid argument", ErrInvalidArgument.Message)
}

func TestStoreFailurePreservesCause(t *testing.T) {
	err := StoreFailure(sql.ErrConnDone, "failed to count enrollments")

	assert.True(t, stdErrors.Is(err, sql.ErrConnDone))
	assert.True(t, stdErrors.Is(err, ErrStore))
	assert.Equal(t, http.StatusServiceUnavailable, FromError(err).Status)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "pattern not found"))
	appErr := FromError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)

	plain := FromError(stdErrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Nil(t, FromError(nil))
}
