package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/metrics"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/token"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// TokenValidator is satisfied by *token.Authority.
type TokenValidator interface {
	Validate(raw string) (*token.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
// Every rejection gets the same 401 body; the reason is only logged.
func Auth(tokens TokenValidator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(c, log, "missing", nil)
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				return reject(c, log, reason(err), err)
			}

			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextRole, claims.Role)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}

func reject(c echo.Context, log zerolog.Logger, why string, err error) error {
	metrics.TokenRejectionsTotal.WithLabelValues(why).Inc()
	log.Warn().
		Err(err).
		Str("reason", why).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("bearer token rejected")
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
