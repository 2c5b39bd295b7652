package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/tenantportal/internal/auth"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"github.com/suteetoe/tenantportal/prometheus"
	"go.uber.org/zap"
)

// AccountLookup returns the stored role of an account, or an error when the
// account no longer exists
type AccountLookup interface {
	AccountRole(ctx context.Context, userID uint) (string, error)
}

// RequireRoles lets the request through only when the authenticated account
// holds one of roles. With a lookup the role is read from storage, so removed
// accounts are refused even while their token is valid.
func RequireRoles(accounts AccountLookup, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			id := auth.IdentityFrom(c)

			if id != nil && accounts != nil {
				role, err := accounts.AccountRole(c.Request().Context(), id.UserID)
				if err != nil {
					log.Warn("Account lookup failed", zap.Uint("user_id", id.UserID), zap.Error(err))
					prometheus.RecordAuthError("unknown_account")
					return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized access"})
				}
				id.Role = role
			}

			decision := auth.Authorize(id, roles...)
			if !decision.Allowed {
				log.Warn("Access denied", zap.String("reason", decision.Reason))
				prometheus.RecordAuthError("forbidden")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized access"})
			}
			return next(c)
		}
	}
}
