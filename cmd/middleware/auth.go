package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"eventdesk/internal/dto"
)

const bearerSchema = "Bearer "

var (
	errNoToken      = errors.New("authorization header is missing")
	errBadScheme    = errors.New("authorization header must start with Bearer")
	errMissingClaim = errors.New("token has no subject")
)

// Authenticator verifies HS256 bearer tokens issued by the identity provider
// and exposes the token subject as the caller's user id.
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return &Authenticator{secret: []byte(secret), issuer: issuer}, nil
}

// UserID returns the subject of a valid token in the Authorization header.
func (a *Authenticator) UserID(header string) (string, error) {
	if header == "" {
		return "", errNoToken
	}
	if !strings.HasPrefix(header, bearerSchema) {
		return "", errBadScheme
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(header[len(bearerSchema):], &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errMissingClaim
	}
	return claims.Subject, nil
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := a.UserID(c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			dto.UnauthorizedError(c)
			return
		}
		c.Set(dto.UserIDKey, id)
		c.Next()
	}
}

// Optional identifies the caller when a valid token is sent and lets
// anonymous requests through.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := a.UserID(c.GetHeader("Authorization")); err == nil {
			c.Set(dto.UserIDKey, id)
		}
		c.Next()
	}
}
