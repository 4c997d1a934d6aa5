// internal/utils/jwt.go
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// JWTClaims is the session issued by the backend's login flow. The apprentice
// fields are optional except the id.
type JWTClaims struct {
	UserID         int64  `json:"user_id"`
	ApprenticeID   int64  `json:"apprentice_id"`
	Email          string `json:"email,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	DocumentType   string `json:"type_identification,omitempty"`
	DocumentNumber string `json:"number_identification,omitempty"`
	Phone          string `json:"phone_number,omitempty"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("your-secret-key-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// Apprentice returns the identity a draft is submitted for.
func (c *JWTClaims) Apprentice() models.Apprentice {
	return models.Apprentice{
		ID:             c.ApprenticeID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		Phone:          c.Phone,
	}
}

// GenerateJWT signs a session for apprentice. The backend issues the real
// tokens; this serves local tooling and tests.
func GenerateJWT(userID int64, apprentice models.Apprentice, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:         userID,
		ApprenticeID:   apprentice.ID,
		Email:          apprentice.Email,
		FirstName:      apprentice.FirstName,
		LastName:       apprentice.LastName,
		DocumentType:   apprentice.DocumentType,
		DocumentNumber: apprentice.DocumentNumber,
		Phone:          apprentice.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ApprenticeID <= 0 {
		return nil, errors.New("token carries no apprentice")
	}
	return claims, nil
}
