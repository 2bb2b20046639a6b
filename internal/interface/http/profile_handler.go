package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wastedx7/Secure-User-Authentication/internal/application"
	"github.com/wastedx7/Secure-User-Authentication/internal/interface/middleware"
	"github.com/wastedx7/Secure-User-Authentication/pkg/response"
	"github.com/wastedx7/Secure-User-Authentication/pkg/validation"
)

// ProfileHandler serves the endpoints that act on the authenticated
// principal: profile lookup and the email-verification OTP flow.
type ProfileHandler struct {
	Service *application.Service
	Logger  *logrus.Logger
}

func NewProfileHandler(svc *application.Service, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Service: svc, Logger: logger}
}

type verifyOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// IsAuthenticated GET /api/is-authenticated. Runs behind the authenticator
// but without RequireAuth: it reports whether a principal was attached.
func (h *ProfileHandler) IsAuthenticated(c *gin.Context) {
	_, ok := middleware.PrincipalFrom(c)
	resp := response.Success(c, http.StatusOK, ok, "authentication status", nil)
	c.JSON(resp.Status, resp)
}

// GetProfile GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	u, err := h.Service.GetByEmail(c.Request.Context(), p.Email)
	if err != nil {
		serverError(c, h.Logger, err, "profile lookup failed")
		return
	}

	payload := profilePayload{UserID: u.ID, Name: u.Name, Email: u.Email, IsAccountVerified: u.IsVerified}
	resp := response.Success(c, http.StatusOK, payload, "profile", nil)
	c.JSON(resp.Status, resp)
}

// SendVerifyOTP POST /api/send-otp. Idempotent for verified accounts.
func (h *ProfileHandler) SendVerifyOTP(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	if err := h.Service.SendVerifyOTP(c.Request.Context(), p.Email); err != nil {
		otpError(c, h.Logger, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "verification code sent", nil)
	c.JSON(resp.Status, resp)
}

// VerifyOTP POST /api/verify-otp
func (h *ProfileHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	if err := h.Service.ConfirmVerifyOTP(c.Request.Context(), p.Email, req.OTP); err != nil {
		otpError(c, h.Logger, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "account verified", nil)
	c.JSON(resp.Status, resp)
}

