package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wastedx7/Secure-User-Authentication/internal/application"
	"github.com/wastedx7/Secure-User-Authentication/internal/domain/repository"
	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
	"github.com/wastedx7/Secure-User-Authentication/pkg/response"
)

// CtxPrincipalKey is the Gin context key the authenticated principal is
// stored under.
const CtxPrincipalKey = "principal"

// AuthConfig wires the request authenticator.
type AuthConfig struct {
	JWT         *helpers.JWTManager
	Users       repository.UserRepository
	CookieName  string
	PublicPaths map[string]struct{}
}

// Authenticate is the per-request decision procedure. Public paths pass
// through untouched and never require a token. Everywhere else a candidate
// token is taken from the Authorization Bearer header, falling back to the
// named cookie. A missing, invalid or expired token leaves the request
// anonymous rather than failing it; only RequireAuth turns anonymity into a
// 401. On success the principal is attached to the request context.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := cfg.PublicPaths[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			// Match the cookie by its configured name.
			if v, err := c.Cookie(cfg.CookieName); err == nil {
				token = v
			}
		}
		if token == "" {
			c.Next()
			return
		}

		subject, err := cfg.JWT.Verify(token)
		if err != nil {
			// Anonymous, and nothing stale left in the context.
			c.Next()
			return
		}

		u, err := cfg.Users.GetByEmail(subject)
		if err != nil {
			// The subject of an old token may no longer exist.
			c.Next()
			return
		}

		c.Set(CtxPrincipalKey, application.NewPrincipal(u))
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal for the request, if any.
func PrincipalFrom(c *gin.Context) (application.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return application.Principal{}, false
	}
	p, ok := v.(application.Principal)
	return p, ok
}

// RequireAuth rejects anonymous requests with a 401. It assumes
// Authenticate already ran.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c); !ok {
			resp := response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
