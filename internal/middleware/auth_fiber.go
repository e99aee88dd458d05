package middleware

import (
	"strings"

	utils "github.com/fathima-sithara/video-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

const UserIDKey = "user_id"

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// JWTAuth accepts "Authorization: Bearer <token>" or an accessToken cookie
// and stores the caller id under UserIDKey.
func JWTAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("accessToken")
		if h := c.Get(fiber.HeaderAuthorization); h != "" {
			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return utils.JSONError(c, fiber.StatusUnauthorized, "invalid authorization")
			}
			token = strings.TrimSpace(parts[1])
		}
		if token == "" {
			return utils.JSONError(c, fiber.StatusUnauthorized, "missing authorization")
		}
		userID, err := verifier.VerifyToken(token)
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid token")
		}
		if _, ok := utils.ParseID(userID); !ok {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid token subject")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
