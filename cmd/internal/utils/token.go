package utils

import (
	"errors"
	"strings"
	"time"

	"medisched/cmd/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenDataKey = "token_data"

var ErrNoTokenData = errors.New("no token data in request context")

// TokenData is the authenticated identity carried by a request, extracted
// from the bearer token by JWTMiddleware.
type TokenData struct {
	UserID int
	Role   entity.Role
}

type authClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the given user.
func GenerateToken(secret []byte, user *entity.User, ttl time.Duration) (string, error) {
	claims := authClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a signed token and returns the identity it carries.
func ParseToken(secret []byte, tokenString string) (*TokenData, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid auth token")
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !entity.ValidRole(claims.Role) {
		return nil, errors.New("invalid auth claims")
	}
	return &TokenData{UserID: claims.UserID, Role: entity.Role(claims.Role)}, nil
}

// JWTMiddleware validates the Authorization bearer token and stores the
// resulting TokenData on the echo context for ParseTokenDataCtx.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == "" || tokenString == header {
				return echo.NewHTTPError(401, "missing bearer token")
			}

			data, err := ParseToken(secret, tokenString)
			if err != nil {
				return echo.NewHTTPError(401, "invalid auth token")
			}

			c.Set(tokenDataKey, data)
			return next(c)
		}
	}
}

// ParseTokenDataCtx returns the identity JWTMiddleware attached to the request.
func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenDataKey).(*TokenData)
	if !ok || data == nil {
		return nil, ErrNoTokenData
	}
	return data, nil
}
