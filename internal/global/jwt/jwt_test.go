package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	payload := Payload{UserID: 5, Username: "zhangsan", RoleID: 1}
	token := CreateToken(payload)
	require.NotEmpty(t, token)

	claims, ok := ParseToken(token)
	require.True(t, ok)
	require.Equal(t, payload, claims.Payload)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, ok := ParseToken("not.a.token")
	require.False(t, ok)

	_, ok = ParseToken("")
	require.False(t, ok)
}
