package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"video-catalog/constant"
	"video-catalog/pkg/apperror"
)

type Claims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Authenticate checks the Bearer token and stores the caller id on the gin context.
func Authenticate(secret []byte) func(c *gin.Context) error {
	return func(c *gin.Context) error {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return apperror.Unauthorized("Unauthorized request")
		}

		userId, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			return apperror.Unauthorized("Invalid access token").Wrap(err)
		}

		c.Set(constant.ContextKeyUserId, userId)
		return nil
	}
}

func ParseToken(secret []byte, token string) (uuid.UUID, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	if !parsed.Valid {
		return uuid.Nil, errors.New("token is not valid")
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject %q: %w", claims.Subject, err)
	}
	return userId, nil
}

func IssueToken(secret []byte, userId uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// CallerId returns the id Authenticate stored on the context.
func CallerId(c *gin.Context) (uuid.UUID, error) {
	value, ok := c.Get(constant.ContextKeyUserId)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("Unauthorized request")
	}
	userId, ok := value.(uuid.UUID)
	if !ok || userId == uuid.Nil {
		return uuid.Nil, apperror.Unauthorized("Unauthorized request")
	}
	return userId, nil
}
