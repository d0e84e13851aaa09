package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		err := NewValidation("url cannot be empty")
		assert.True(t, IsValidation(err))
		assert.False(t, IsNotFound(err))
		assert.False(t, IsStorage(err))
	})

	t.Run("NotFoundCarriesResource", func(t *testing.T) {
		err := NewNotFound("tab", "tab 'x' not found")
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "tab", ResourceOf(err))
	})

	t.Run("StorageWrapsCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewStorage("put failed", cause)
		assert.True(t, IsStorage(err))
		assert.ErrorIs(t, err, cause)
	})
}

func TestWrap(t *testing.T) {
	t.Run("NilPassesThrough", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("PreservesKind", func(t *testing.T) {
		err := Wrap(NewNotFound("tag", "tag 'work' not found"), "detach failed")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "tag", ResourceOf(err))
		assert.Contains(t, err.Error(), "detach failed")
	})

	t.Run("UnknownErrorBecomesStorage", func(t *testing.T) {
		cause := errors.New("throttled")
		err := Wrap(cause, "query failed")
		assert.True(t, IsStorage(err))
		assert.ErrorIs(t, err, cause)
	})
}
