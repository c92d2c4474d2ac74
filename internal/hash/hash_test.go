package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcrypt(t *testing.T) {
	var s Bcrypt

	stored, err := s.Hash("password")
	require.NoError(t, err)
	require.NotEqual(t, "password", stored)

	require.True(t, s.Check(stored, "password"))
	require.False(t, s.Check(stored, "wrong"))
}

func TestPlaintext(t *testing.T) {
	var s Plaintext

	stored, err := s.Hash("password")
	require.NoError(t, err)
	require.Equal(t, "password", stored)

	require.True(t, s.Check("password", "password"))
	require.False(t, s.Check("password", "other"))
}
