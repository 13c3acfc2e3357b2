package authUtils

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"civiclens-be/models"
)

// GenerateToken signs an HS256 JWT carrying the user id and role.
// The role claim is informational for the frontend; services re-read the
// role from the profile store before authorizing anything.
func GenerateToken(secret, userID string, role models.UserRole) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	})

	return token.SignedString([]byte(secret))
}
