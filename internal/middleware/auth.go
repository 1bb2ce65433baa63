package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"venuebooking/internal/pkg/jwt"
	"venuebooking/internal/pkg/response"
)

// JWTAuth validates the bearer token and stores "user_id" and the raw token
// "role" on the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, msg := bearerToken(c.GetHeader("Authorization"))
		if code != "" {
			unauthorized(c, code, msg)
			return
		}

		claims, err := jwtService.ValidateToken(token)
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			unauthorized(c, "TOKEN_EXPIRED", "Token has expired")
			return
		case err != nil:
			unauthorized(c, "INVALID_TOKEN", "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header, or the error code to answer with.
func bearerToken(header string) (token, code, msg string) {
	if header == "" {
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>"
	}
	return token, "", ""
}

func unauthorized(c *gin.Context, code, msg string) {
	response.Error(c, http.StatusUnauthorized, code, msg)
	c.Abort()
}
