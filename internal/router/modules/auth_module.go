package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/wastedx7/Secure-User-Authentication/internal/interface/http"
	"github.com/wastedx7/Secure-User-Authentication/internal/interface/middleware"
)

// AuthModule wires the public authentication routes. Login and register get
// IP-based rate limits; the OTP endpoints are left unthrottled since code
// consumption is already single-use.
type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/logout", m.Handler.Logout)
	rg.POST("/send-reset-otp", m.Handler.SendResetOTP)
	rg.POST("/reset-password", m.Handler.ResetPassword)
}
