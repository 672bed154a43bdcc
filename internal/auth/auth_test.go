package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email: "recruiter@example.com",
		Name:  "Rita Recruiter",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "hireflow",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestJWTVerifier_Verify(t *testing.T) {
	v, err := NewJWTVerifier(secret, "hireflow")
	require.NoError(t, err)

	id, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()))
	require.NoError(t, err)
	assert.Equal(t, Identity{Email: "recruiter@example.com", Name: "Rita Recruiter"}, id)
}

func TestJWTVerifier_SubjectEmail(t *testing.T) {
	v, err := NewJWTVerifier(secret, "")
	require.NoError(t, err)

	claims := validClaims()
	claims.Email = ""
	claims.Subject = "sub@example.com"

	id, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), claims))
	require.NoError(t, err)
	assert.Equal(t, "sub@example.com", id.Email)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v, err := NewJWTVerifier(secret, "hireflow")
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	otherIssuer := validClaims()
	otherIssuer.Issuer = "someone-else"

	noEmail := validClaims()
	noEmail.Email = ""

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong secret", token: sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{name: "wrong method", token: sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims())},
		{name: "expired", token: sign(t, jwt.SigningMethodHS256, []byte(secret), expired)},
		{name: "issuer", token: sign(t, jwt.SigningMethodHS256, []byte(secret), otherIssuer)},
		{name: "no email", token: sign(t, jwt.SigningMethodHS256, []byte(secret), noEmail)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.Error(t, err)
			if tt.token == "" {
				assert.ErrorIs(t, err, ErrMissingToken)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier("", "")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
