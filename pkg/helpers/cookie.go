package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager writes and clears the cookie carrying the bearer token.
// The cookie is HttpOnly, SameSite=Strict, path "/", with a max-age that
// matches the token expiry, so issuance and extraction always agree on the
// name and lifetime.
type CookieManager struct {
	Name   string
	Domain string
	Secure bool
}

func NewCookieManager(name, domain string, secure bool) *CookieManager {
	return &CookieManager{Name: name, Domain: domain, Secure: secure}
}

func (m *CookieManager) SetToken(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
