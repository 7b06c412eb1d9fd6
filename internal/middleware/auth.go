package middleware

import (
	"strings"

	"digital-key-store/internal/service"

	"github.com/labstack/echo/v4"
)

const AdminContextKey = "admin"

// AdminAuth requires a bearer token issued by POST /api/admin/login.
// A nil auth service leaves the admin routes open.
func AdminAuth(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if authService == nil {
			return next
		}
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return service.ErrInvalidToken
			}

			subject, err := authService.ParseToken(token)
			if err != nil {
				return err
			}

			c.Set(AdminContextKey, subject)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
