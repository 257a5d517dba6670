package auth

import (
	"testing"
	"time"

	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("top-secret")

	token, err := v.IssueToken("user-42", time.Hour)
	require.NoError(t, err)

	userID, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("top-secret")

	expired, err := v.IssueToken("user-42", -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewVerifier("other").IssueToken("user-42", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("top-secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "user-42",
	}).SignedString([]byte("top-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"no subject", noSubject},
		{"wrong algorithm", wrongAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestVerifier_NoSecret(t *testing.T) {
	v := NewVerifier("")

	_, err := v.ValidateToken("anything")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = v.IssueToken("u", time.Hour)
	assert.Error(t, err)
}
