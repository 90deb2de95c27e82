// Package auth implements the token service: issuing and verifying the
// signed, time-limited session tokens (HS256 JWTs) that carry a user's
// stable UID.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avoroncov/itemvault/internal/common"
)

// Claims carries the standard registered claims plus the user's stable UID.
// The internal numeric user id is never embedded in tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserUID string `json:"uid"`
}

// GenerateToken issues a signed token for userUID, valid for
// validityDuration from now.
func GenerateToken(userUID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserUID: userUID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserUIDFromToken verifies the token signature and expiry and returns
// the embedded user UID. Expired tokens yield common.ErrTokenExpired;
// any other verification failure yields common.ErrInvalidToken, so the
// caller can tell the two apart.
func GetUserUIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserUID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserUID, nil
}
