package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

var tracer = otel.Tracer("auth")

// Authenticator resolves a session token to the viewer it belongs to.
type Authenticator interface {
	AuthJwt(ctx context.Context, token string) (domain.Viewer, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// IdentifyIdentity attaches the viewer to the request context when a valid token is
// presented. Requests without one pass through anonymously; a rejected token is
// recorded so handlers can report why.
func (s *AuthMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyIdentity")
		defer span.End()

		token := ""
		authHeader := c.Request().Header.Get("authorization")
		if authHeader != "" {
			split := strings.Split(authHeader, " ")
			if len(split) != 2 || split[0] != "Bearer" {
				span.RecordError(fmt.Errorf("invalid authentication header"))
			} else {
				token = split[1]
			}
		} else if c.IsWebSocket() {
			// browsers cannot set headers on websocket upgrades
			token = c.QueryParam("token")
		}

		if token != "" {
			viewer, err := s.auth.AuthJwt(ctx, token)
			if err != nil {
				span.RecordError(errors.Wrap(err, "AuthMiddleware.IdentifyIdentity: s.auth.AuthJwt failed"))
				ctx = context.WithValue(ctx, domain.AuthErrorCtxKey, err)
			} else {
				ctx = context.WithValue(ctx, domain.ViewerCtxKey, viewer)
				span.SetAttributes(attribute.String("ViewerId", viewer.UserID))
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// Viewer returns the authenticated viewer, or the reason there is none.
func Viewer(ctx context.Context) (domain.Viewer, error) {
	if viewer, ok := ctx.Value(domain.ViewerCtxKey).(domain.Viewer); ok {
		return viewer, nil
	}
	if err, ok := ctx.Value(domain.AuthErrorCtxKey).(error); ok {
		return domain.Viewer{}, err
	}
	return domain.Viewer{}, domain.AuthExpiredError{}
}
