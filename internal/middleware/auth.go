// Package middleware provides authentication, logging and rate limiting
// middleware for the HTTP surface.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pranava-mohan/WikiNITT/internal/config"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// Locals keys set by the auth middleware.
const (
	LocalViewerID = "viewerID"
	LocalToken    = "sessionToken"
)

// AuthRequired enforces a valid session for protected routes. On success
// the viewer ID and the raw bearer token land in locals; the token is
// forwarded verbatim to the upstream GraphQL API.
func AuthRequired(c *fiber.Ctx) error {
	viewerID, token, err := parseBearer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Locals(LocalViewerID, viewerID)
	c.Locals(LocalToken, token)
	return c.Next()
}

// AuthOptional resolves a session when one is presented and carries on
// anonymously otherwise. Pages like the feed render either way; only vote
// state and membership flags differ.
func AuthOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	viewerID, token, err := parseBearer(c)
	if err != nil {
		// A bad token on a public page reads as anonymous.
		return c.Next()
	}
	c.Locals(LocalViewerID, viewerID)
	c.Locals(LocalToken, token)
	return c.Next()
}

func parseBearer(c *fiber.Ctx) (viewerID, token string, err error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}
	tokenString := parts[1]

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}

	return sub, tokenString, nil
}

// ViewerID returns the authenticated viewer's ID, empty for anonymous.
func ViewerID(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalViewerID).(string); ok {
		return v
	}
	return ""
}

// Token returns the raw session token for gateway passthrough, empty for
// anonymous.
func Token(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalToken).(string); ok {
		return v
	}
	return ""
}
