package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smartedu/smartedu/backend/go-services/internal/config"
	"github.com/smartedu/smartedu/backend/go-services/internal/models"
)

// GenerateAccessToken creates a signed JWT access token for the user.
// The userId claim is what protected handlers use as the owner identifier.
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId":   u.UserID,
		"username": u.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}
