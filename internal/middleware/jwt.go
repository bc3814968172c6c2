package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sanad-app/sanad-go-api/internal/utils"
)

const counselorLocal = "counselor_id"

// JWTProtected gates a route group behind HMAC-signed bearer tokens issued
// by the counseling portal. On success the token subject is stored as the
// counselor id for downstream handlers.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "missing bearer token")
		}

		token, err := parser.Parse(raw, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}
		if id, ok := counselorIDFromClaims(claims); ok {
			c.Locals(counselorLocal, id)
		}

		return c.Next()
	}
}

// CounselorID returns the authenticated counselor id, or 0 when the token
// carried no usable subject.
func CounselorID(c *fiber.Ctx) uint {
	id, _ := c.Locals(counselorLocal).(uint)
	return id
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func counselorIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	for _, key := range []string{"sub", "counselor_id", "id"} {
		switch v := claims[key].(type) {
		case float64:
			if v >= 0 {
				return uint(v), true
			}
		case string:
			if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
				return uint(parsed), true
			}
		}
	}
	return 0, false
}
