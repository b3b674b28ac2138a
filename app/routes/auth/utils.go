package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eunjoy-library/StudentTrackr/app/config"
)

const sessionDuration = 12 * time.Hour

// CheckPassword verifies the shared admin password against the configured
// bcrypt hash.
func CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(config.AppConfig.AdminPasswordHash), []byte(password))
	return err == nil
}

type AdminClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateAdminToken issues the session token stored in the admin cookie
func GenerateAdminToken() (string, error) {
	claims := AdminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "studenttrackr",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateAdminToken checks a session token and confirms the admin claim
func ValidateAdminToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid && claims.Admin {
		return nil
	}
	return jwt.ErrTokenInvalidClaims
}
