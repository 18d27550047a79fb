// Package auth verifies the identity tokens presented by the client.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bidcheck/internal/config"
	"bidcheck/internal/domain"
	"bidcheck/internal/port"
)

// Claims are the identity token claims. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWTVerifier validates HS256 tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a verifier from auth configuration. An empty issuer
// accepts tokens from any issuer.
func NewJWTVerifier(cfg config.AuthConfig) *JWTVerifier {
	return &JWTVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Verify parses and validates tokenString and returns the caller identity.
func (v *JWTVerifier) Verify(tokenString string) (*port.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return &port.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// Issue signs a token for userID. It is used by local tooling and tests; in
// production tokens come from the identity service.
func (v *JWTVerifier) Issue(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
