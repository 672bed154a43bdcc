// Package auth turns bearer tokens into verified identities. Tokens are
// issued elsewhere; this package only verifies them.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the verified caller.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verifier yields the identity behind a bearer token.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Claims are the token claims this service reads.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HMAC-SHA256 signed tokens.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier returns a verifier for secret. A non-empty issuer must match
// the token's iss claim.
func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}, nil
}

func (v *JWTVerifier) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	email := claims.Email
	if email == "" && strings.Contains(claims.Subject, "@") {
		email = claims.Subject
	}
	if email == "" {
		return Identity{}, fmt.Errorf("%w: token has no email", ErrInvalidToken)
	}
	return Identity{Email: email, Name: claims.Name}, nil
}

// BearerToken extracts the token from an Authorization header value. A header
// without the Bearer scheme is taken as the raw token.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if found {
		return ""
	}
	return header
}
