// Package auth issues and checks the HS256 access tokens that clients present
// to the document store.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/vignaraja/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the id of the connecting client.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"cid"`
}

// GenerateToken signs a token for clientID that expires after validity.
func GenerateToken(clientID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		ClientID: clientID,
	})

	return token.SignedString(secretKey)
}

// GetClientIDFromToken validates tokenString and returns its client id.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// validation yields common.ErrInvalidToken.
func GetClientIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.ClientID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.ClientID, nil
}
