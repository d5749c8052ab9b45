package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsKind(t *testing.T) {
	err := Clone(ErrNotFound, "teacher not found")
	assert.Equal(t, "teacher not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidStatus))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)

	assert.Nil(t, FromError(nil))
}

func TestInvalidWrapsCause(t *testing.T) {
	cause := errors.New("end before start")
	err := Invalid(cause, "invalid appointment time range")
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "invalid appointment time range: end before start", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
}
