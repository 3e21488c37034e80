package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// AuthMiddleware verifies HMAC signed bearer tokens and stores the caller's
// name for the ledger. An empty secret turns authentication off.
func AuthMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			return unauthorized(ctx, "Missing Authorization header")
		}

		// Ambil token dari "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			return unauthorized(ctx, "Invalid Authorization header format")
		}

		token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(ctx, "Unauthorized: Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(ctx, "Unauthorized: Invalid token")
		}
		ctx.Locals(actorKey, actorFromClaims(claims))
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"code":    "UNAUTHORIZED",
		"error":   message,
	})
}

func actorFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"username", "sub"} {
		if v, ok := claims[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if id, ok := claims["user_id"].(float64); ok {
		return fmt.Sprintf("user-%d", int64(id))
	}
	return ""
}

// Actor is the authenticated caller, or "" when the request is anonymous.
func Actor(ctx *fiber.Ctx) string {
	actor, _ := ctx.Locals(actorKey).(string)
	return actor
}

// IssueToken signs a token accepted by AuthMiddleware.
func IssueToken(secret, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
