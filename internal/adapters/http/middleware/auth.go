package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/tokenverify"
	res "github.com/ABDUL-REHMAN392/moviebackend/pkg/http"
)

// AccessCookieName is the cookie fallback for clients that cannot set an
// Authorization header. The header wins when both are present.
const AccessCookieName = "accessToken"

type AuthMiddleware struct {
	auth tokenverify.Authenticator
}

func NewAuthMiddleware(auth tokenverify.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "authorization token not found", requestIDFromCtx(c), nil)
		}
		identity, err := tokenverify.Verify(c.Request().Context(), m.auth, requestIDFromCtx(c), token)
		if err != nil {
			if errors.Is(err, domain.ErrDependency) {
				return res.ErrorJSON(c, http.StatusInternalServerError, "internal_error", "authentication failed", requestIDFromCtx(c), nil)
			}
			return res.ErrorJSON(c, http.StatusUnauthorized, tokenverify.Code(err), "invalid or expired token", requestIDFromCtx(c), nil)
		}
		c.Set("identity", identity)
		c.Set("user_id", identity.ID)
		return next(c)
	}
}

func extractToken(c echo.Context) string {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if parts := strings.SplitN(authz, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	if cookie, err := c.Cookie(AccessCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
