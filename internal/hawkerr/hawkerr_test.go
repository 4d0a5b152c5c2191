package hawkerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapNilIsNil(t *testing.T) {
	require.NoError(t, Wrap("op", nil))
}

func TestWrapUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := Wrap("registry.add", inner)
	require.Error(t, err)
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "registry.add")
}

func TestIsValidation(t *testing.T) {
	err := Validationf("bad name %q", "../evil")
	require.True(t, IsValidation(err))
	require.False(t, IsConflict(err))

	wrapped := Wrap("op", err)
	require.True(t, IsValidation(wrapped), "errors.As should see through IOError.Unwrap")
}

func TestIsConflict(t *testing.T) {
	err := Conflictf("key %q already user-managed", "user-tool")
	require.True(t, IsConflict(err))
	require.False(t, IsValidation(err))
}
