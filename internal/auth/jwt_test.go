package auth

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("3f6c1a52-9b0e-4f7d-8a21-c5d4e9b10a77", "quinn")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "3f6c1a52-9b0e-4f7d-8a21-c5d4e9b10a77", claims.UserID)
	require.Equal(t, "quinn", claims.Username)
	require.Equal(t, "habit-quest-api", claims.Issuer)
	require.Contains(t, []string(claims.Audience), "habit-quest-clients")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestValidateTokenRejectsTamperedSignature(t *testing.T) {
	token, err := GenerateToken("u-1", "quinn")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	_, err = ValidateToken(tampered)
	require.Error(t, err)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	claims := Claims{
		UserID:   "u-1",
		Username: "quinn",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   "someone-else",
			Audience: jwt.ClaimStrings{"habit-quest-clients"},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = ValidateToken(signed)
	require.Error(t, err)
}
