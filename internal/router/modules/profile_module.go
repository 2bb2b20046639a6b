package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/wastedx7/Secure-User-Authentication/internal/interface/http"
	"github.com/wastedx7/Secure-User-Authentication/internal/interface/middleware"
)

// ProfileModule wires the routes that act on the authenticated principal.
// /is-authenticated is observed by the authenticator but never rejected, so
// clients can probe their session state.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
}

func NewProfileModule(h *handlers.ProfileHandler) *ProfileModule {
	return &ProfileModule{Handler: h}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/is-authenticated", m.Handler.IsAuthenticated)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.POST("/send-otp", m.Handler.SendVerifyOTP)
		auth.POST("/verify-otp", m.Handler.VerifyOTP)
	}
}
