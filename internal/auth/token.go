package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/omtii/marketplace/internal/config"
)

var (
	jwtSecret       []byte
	tokenTTL        = 72 * time.Hour
	bcryptCost      = 12
	bootstrapSecret string
)

// Configure sets package-level auth parameters from config. Must be called
// before any token is issued or parsed.
func Configure(cfg config.AuthConfig) {
	jwtSecret = []byte(cfg.JWTSecret)
	tokenTTL = cfg.TokenTTL()
	if cfg.BcryptCost > 0 {
		bcryptCost = cfg.BcryptCost
	}
	bootstrapSecret = cfg.BootstrapSecret
}

// Claims carried by access tokens. Roles are intentionally not baked in;
// the middleware resolves the live role set per request.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueToken signs a new access token for the user.
func IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
