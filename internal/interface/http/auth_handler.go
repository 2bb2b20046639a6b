package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wastedx7/Secure-User-Authentication/internal/application"
	"github.com/wastedx7/Secure-User-Authentication/pkg/helpers"
	"github.com/wastedx7/Secure-User-Authentication/pkg/response"
	"github.com/wastedx7/Secure-User-Authentication/pkg/validation"
)

// AuthHandler serves the public endpoints: registration, login/logout and
// the password-reset OTP flow.
type AuthHandler struct {
	Service *application.Service
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.Service, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Service: svc, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
	OTP         string `json:"otp" binding:"required"`
}

// profilePayload is the client-facing projection of a user record.
type profilePayload struct {
	UserID            string `json:"userId"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	u, err := h.Service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			resp := response.Error[any](c, http.StatusConflict, err.Error(), nil)
			c.JSON(resp.Status, resp)
			return
		}
		serverError(c, h.Logger, err, "register failed")
		return
	}

	payload := profilePayload{UserID: u.ID, Name: u.Name, Email: u.Email, IsAccountVerified: u.IsVerified}
	resp := response.Success(c, http.StatusCreated, payload, "registered", nil)
	c.JSON(resp.Status, resp)
}

// Login POST /api/login. On success the token travels both in the body and
// in the HttpOnly cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	u, token, exp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			resp := response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			c.JSON(resp.Status, resp)
		case errors.Is(err, application.ErrAccountDisabled):
			resp := response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
			c.JSON(resp.Status, resp)
		default:
			serverError(c, h.Logger, err, "login failed")
		}
		return
	}

	h.Cookies.SetToken(c, token, exp)
	resp := response.Success(c, http.StatusOK, gin.H{"email": u.Email, "token": token}, "login successful", nil)
	c.JSON(resp.Status, resp)
}

// Logout POST /api/logout. Tokens are stateless, so logout only clears the
// cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	resp := response.Success[any](c, http.StatusOK, nil, "logged out", nil)
	c.JSON(resp.Status, resp)
}

// SendResetOTP POST /api/send-reset-otp?email=...
func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		resp := response.Error[any](c, http.StatusBadRequest, "email is required", nil)
		c.JSON(resp.Status, resp)
		return
	}

	if err := h.Service.SendResetOTP(c.Request.Context(), email); err != nil {
		otpError(c, h.Logger, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "reset code sent", nil)
	c.JSON(resp.Status, resp)
}

// ResetPassword POST /api/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}

	if err := h.Service.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		otpError(c, h.Logger, err)
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "password reset", nil)
	c.JSON(resp.Status, resp)
}

// otpError maps OTP failures onto status codes. OTP messages may be
// specific; only login hides the reason.
func otpError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		resp := response.Error[any](c, http.StatusNotFound, err.Error(), nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, application.ErrNoOutstandingOTP),
		errors.Is(err, application.ErrOTPMismatch),
		errors.Is(err, application.ErrOTPExpired):
		resp := response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, application.ErrNotifyFailed):
		resp := response.Error[any](c, http.StatusInternalServerError, err.Error(), nil)
		c.JSON(resp.Status, resp)
	default:
		serverError(c, logger, err, "otp operation failed")
	}
}

func serverError(c *gin.Context, logger *logrus.Logger, err error, msg string) {
	if logger != nil {
		logger.WithError(err).Error(msg)
	}
	resp := response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	c.JSON(resp.Status, resp)
}
