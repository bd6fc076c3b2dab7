// Package auth implements token issuance and verification for the server.
// Access and refresh tokens are HS256 JWTs signed with distinct secrets and
// carrying fixed claim schemas.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/server/models"
)

// AccessClaims is the payload of an access token: a snapshot of the identity
// taken at issuance time. Profile changes do not affect tokens already issued.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	CoverImage string `json:"cover_image,omitempty"`
}

// RefreshClaims carries only the identity id.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

func IssueAccessToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:     user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Email:      user.Email,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	})

	return token.SignedString(secretKey)
}

func IssueRefreshToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// ParseAccessToken verifies signature and expiry and returns the claims.
// Every failure mode maps to common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secretKey []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ParseRefreshToken verifies signature and expiry of a refresh token.
// Every failure mode maps to common.ErrInvalidToken.
func ParseRefreshToken(tokenString string, secretKey []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
