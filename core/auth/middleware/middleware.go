// Package middleware authenticates requests with bearer tokens.
package middleware

import (
	"strings"

	"github.com/ncobase/socialhub/consts"
	"github.com/ncobase/socialhub/core/auth/service"
	"github.com/ncobase/socialhub/ctxutil"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/net/resp"

	"github.com/gin-gonic/gin"
)

type Middleware struct {
	service *service.Service
	logger  *logger.Logger
}

func NewMiddleware(svc *service.Service, log *logger.Logger) *Middleware {
	return &Middleware{service: svc, logger: log}
}

// AuthMiddleware rejects requests without a valid token for an existing
// user and stores the user id in the gin and request contexts.
func (m *Middleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, err := m.service.Authenticate(ctx, bearerToken(c.GetHeader(consts.AuthorizationKey)))
		if err != nil {
			resp.Fail(c.Writer, resp.FromError(err))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(ctxutil.SetUserID(ctx, userID))

		m.logger.Debug(c.Request.Context(), "User authenticated", "user_id", userID)
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], consts.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
