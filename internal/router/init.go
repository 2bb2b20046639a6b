package router

import (
	"github.com/wastedx7/Secure-User-Authentication/internal/application"
	"github.com/wastedx7/Secure-User-Authentication/internal/container"
	pginfra "github.com/wastedx7/Secure-User-Authentication/internal/infrastructure/postgres"
	handlers "github.com/wastedx7/Secure-User-Authentication/internal/interface/http"
	"github.com/wastedx7/Secure-User-Authentication/internal/router/modules"
	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
	"github.com/wastedx7/Secure-User-Authentication/pkg/mailer"
)

// InitModules builds the service graph from the container singletons and
// registers all feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	sender := mailer.NewQueueSender(container.GetRabbitPub(), cfg.MailSendEnabled)
	service := application.NewService(
		repo,
		container.GetJWT(),
		sender,
		container.GetLogger(),
		cfg.VerifyOTPTTL,
		cfg.ResetOTPTTL,
	)
	cookies := helpers.NewCookieManager(cfg.CookieName, cfg.CookieDomain, cfg.CookieSecure)

	authHandler := handlers.NewAuthHandler(service, cookies, container.GetLogger())
	profileHandler := handlers.NewProfileHandler(service, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetRedis()))
	r.Add(modules.NewProfileModule(profileHandler))
}
