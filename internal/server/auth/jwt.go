// Package auth implements the token and password primitives for the server:
// HS256-signed JWTs carrying identity/role claims, and bcrypt password
// digests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/filecrate/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded token payload. Subject carries the username; Role is
// copied from the user record at issuance time and is trusted as-is during
// validation (a later role change does not invalidate outstanding tokens).
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GenerateToken mints a signed token for the given subject and role.
// Validity is evaluated against wall-clock time at parse time, so a token
// survives server restarts.
func GenerateToken(username, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns
// its claims. Expired tokens yield common.ErrTokenExpired; anything else
// that fails verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
