package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/greekgang/terminal/config"
	"github.com/greekgang/terminal/internal/application"
	"github.com/greekgang/terminal/internal/interface/middleware"
	"github.com/greekgang/terminal/pkg/response"
	"github.com/greekgang/terminal/pkg/validation"
)

// AuthHandler covers registration, token issuance and the signed-token
// account flows.
type AuthHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthHandler(users *application.UserService, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger, Cfg: cfg}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, userJSON(u, 0), "registered, a confirmation email has been sent")
}

// Tokens issues a bearer token to a password-authenticated caller. A caller
// already holding a token cannot mint another one.
func (h *AuthHandler) Tokens(c *gin.Context) {
	if middleware.TokenUsed(c) {
		response.Error(c, http.StatusUnauthorized, "cannot request a token with a token", nil)
		return
	}
	u := middleware.CurrentUser(c)
	token, ttl, err := h.Users.IssueAuthToken(u, 0)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int64(ttl.Seconds()),
	}, "token issued")
}

func (h *AuthHandler) Confirm(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Users.Confirm(c.Request.Context(), u, c.Param("token")); err != nil {
		apiError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account confirmed")
}

func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u.Confirmed {
		response.Success[any](c, http.StatusOK, nil, "account already confirmed")
		return
	}
	if err := h.Users.SendConfirmation(c.Request.Context(), u); err != nil {
		apiError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "confirmation email sent")
}

type resetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset always reports success so the endpoint cannot be used
// to probe which addresses exist.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	h.Users.RequestPasswordReset(c.Request.Context(), req.Email)
	response.Success[any](c, http.StatusOK, nil, "if the address is registered, a reset email has been sent")
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Users.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		apiError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.CurrentUser(c)
	if err := h.Users.ChangePassword(c.Request.Context(), u, req.OldPassword, req.NewPassword); err != nil {
		apiError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated")
}

type changeEmailRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) RequestEmailChange(c *gin.Context) {
	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u := middleware.CurrentUser(c)
	if err := h.Users.RequestEmailChange(c.Request.Context(), u, req.NewEmail, req.Password); err != nil {
		apiError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "a confirmation email has been sent to the new address")
}

func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Users.ChangeEmail(c.Request.Context(), u, c.Param("token")); err != nil {
		apiError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "email address updated")
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.Users.Delete(c.Request.Context(), u); err != nil {
		apiError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
