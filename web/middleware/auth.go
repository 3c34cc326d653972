package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/auth"
)

// ClaimsKey is the fiber.Ctx local holding the verified *auth.Claims
const ClaimsKey = "claims"

// Claims returns the verified token claims of the request, if any
func Claims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// RequireToken rejects requests without a valid bearer token
func RequireToken(issuer *auth.Issuer) fiber.Handler {
	return bearer(issuer, true)
}

// ReportAuth verifies the bearer token of report routes when one is sent and
// stores its claims. When required is set, requests without a token are
// rejected. Matching the token to the requested user is left to the handler,
// which parses the identity parameters.
func ReportAuth(issuer *auth.Issuer, required bool) fiber.Handler {
	return bearer(issuer, required)
}

func bearer(issuer *auth.Issuer, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		if raw == "" {
			if required {
				return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
			}
			return c.Next()
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}
