package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordEncryptAndCompare(t *testing.T) {
	hash := PasswordEncrypt("admin123")
	require.NotEqual(t, "admin123", hash)
	require.True(t, PasswordCompare("admin123", hash))
	require.False(t, PasswordCompare("wrong", hash))

	// 相同明文每次散列结果不同
	require.NotEqual(t, hash, PasswordEncrypt("admin123"))
}
