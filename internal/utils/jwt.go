package utils

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateJWT crée le token d'accès d'un compte client
func GenerateJWT(accountID, phone string) (string, error) {
	claims := jwt.MapClaims{
		"account_id": accountID,
		"phone":      phone,
		"role":       "customer",
		"exp":        time.Now().Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateStaffJWT crée le token d'accès d'un membre du staff
func GenerateStaffJWT(staffID, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"account_id": staffID,
		"email":      email,
		"role":       role,
		"exp":        time.Now().Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateRefreshToken produit un token opaque, stocké côté Redis
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
