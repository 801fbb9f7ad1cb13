package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

const RefreshCookieName = "refreshToken"

const forgotPasswordMessage = "Please check your email for the reset password instructions. If you cannot find the email please check the spam folder"

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	auth   AuthService
	cookie CookieConfig
	logger logrus.FieldLogger
}

func NewAuthHandler(auth AuthService, cookie CookieConfig, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, logger: logger}
}

type TokenResponse struct {
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"accessToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// Register godoc
// @Summary      Register a new user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body      service.RegisterInput  true  "Account"
// @Success      200    {object}  TokenResponse
// @Failure      400    {object}  MessageResponse
// @Failure      409    {object}  MessageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, sess.RefreshToken, int(h.cookie.MaxAge/time.Second))
	c.JSON(http.StatusOK, TokenResponse{Message: "Registration successful", AccessToken: sess.AccessToken})
}

// Login godoc
// @Summary      Log in with username or email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body      service.LoginInput  true  "Credentials"
// @Success      200    {object}  TokenResponse
// @Failure      401    {object}  MessageResponse
// @Failure      429    {object}  MessageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setRefreshCookie(c, sess.RefreshToken, int(h.cookie.MaxAge/time.Second))
	c.JSON(http.StatusOK, TokenResponse{Message: "Login successful", AccessToken: sess.AccessToken})
}

// Refresh godoc
// @Summary      Issue a new access token from the refresh cookie
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  TokenResponse
// @Failure      401  {object}  MessageResponse
// @Failure      403  {object}  MessageResponse
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookieName)

	access, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: access})
}

// Logout godoc
// @Summary      Clear the refresh cookie
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, MessageResponse{Message: "Cookie successfully cleared"})
}

// ForgotPassword godoc
// @Summary      Request a password reset e-mail
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body      forgotPasswordRequest  true  "E-mail"
// @Success      200    {object}  MessageResponse
// @Failure      400    {object}  MessageResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// ResetPassword godoc
// @Summary      Reset a password with an e-mailed token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body      service.ResetPasswordInput  true  "Token, e-mail and new password"
// @Success      200    {object}  MessageResponse
// @Failure      400    {object}  MessageResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successful"})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(RefreshCookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}
