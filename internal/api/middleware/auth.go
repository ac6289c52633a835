package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// OperatorTokenHeader carries the static operator API token, an
	// alternative to a JWT for scripted administration.
	OperatorTokenHeader = "X-Operator-Token"

	RoleKey = "role"
)

// OperatorTokenSource supplies the bcrypt hash of the static operator
// token. An empty hash disables that path.
type OperatorTokenSource interface {
	Get(key string) (string, error)
}

// AdminClaims are the claims the external auth system places in admin
// tokens. This core only validates; it never issues tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth validates externally issued HS256 admin JWTs, or a static
// operator token checked against its stored bcrypt hash. User and session
// management live outside this service.
func AdminAuth(jwtSecret []byte, tokens OperatorTokenSource, tokenHashKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader(OperatorTokenHeader); token != "" {
			if checkOperatorToken(tokens, tokenHashKey, token) {
				c.Set(RoleKey, "admin")
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid operator token"})
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		claims, err := parseAdminToken(jwtSecret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}

		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func parseAdminToken(secret []byte, raw string) (*AdminClaims, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt auth not configured")
	}
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func checkOperatorToken(tokens OperatorTokenSource, hashKey, presented string) bool {
	if tokens == nil {
		return false
	}
	hash, err := tokens.Get(hashKey)
	if err != nil || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
}
