package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joaopmafra/sapie/internal/identity"
	"github.com/joaopmafra/sapie/pkg/logger"
	"github.com/joaopmafra/sapie/pkg/utils"
)

const claimsKey = "authClaims"

type AuthMiddleware struct {
	Verifier *identity.Verifier
}

func NewAuthMiddleware(verifier *identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{Verifier: verifier}
}

func CORS(frontendURL string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: frontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

// RequireAuth resolves the bearer token into decoded claims. A missing or
// malformed Authorization header and an unverifiable token are distinct
// failures with distinct messages; both are 401.
func (a *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		logger.Warn("auth_missing_header", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if tokenString == authHeader || tokenString == "" {
		logger.Warn("auth_invalid_format", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "Authorization token is required")
	}

	claims, err := a.Verifier.VerifyToken(tokenString)
	if err != nil {
		logger.Warn("auth_verification_failed", map[string]interface{}{
			"ip":    c.IP(),
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	c.Locals(claimsKey, claims)
	c.Locals("userID", claims.UserID.String())
	return c.Next()
}

// CurrentClaims returns the decoded claims set by RequireAuth, or nil on
// routes that ran without it.
func CurrentClaims(c *fiber.Ctx) *identity.Claims {
	value := c.Locals(claimsKey)
	if value == nil {
		return nil
	}
	claims, ok := value.(*identity.Claims)
	if !ok {
		return nil
	}
	return claims
}
