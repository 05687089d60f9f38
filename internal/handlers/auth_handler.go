package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicdesk/clinic-scheduler/internal/config"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/httperr"
	"github.com/clinicdesk/clinic-scheduler/internal/middleware"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	identity "github.com/clinicdesk/clinic-scheduler/internal/usecase/identity"
)

// ======================================================
// HANDLER
// ======================================================

type AuthHandler struct {
	register *identity.RegisterUser
	login    *identity.Authenticate
	external *identity.ResolveExternalIdentity
	forgot   *identity.RequestPasswordReset
	reset    *identity.ResetPassword
	config   *config.Config
}

func NewAuthHandler(
	register *identity.RegisterUser,
	login *identity.Authenticate,
	external *identity.ResolveExternalIdentity,
	forgot *identity.RequestPasswordReset,
	reset *identity.ResetPassword,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		external: external,
		forgot:   forgot,
		reset:    reset,
		config:   cfg,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"`

	Role string `json:"role" binding:"required"`

	// Domain is the subdomain a customeradmin claims for their tenant.
	// Clients leave it empty and send X-Tenant-Domain instead.
	Domain string `json:"domain"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type ExternalLoginRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	FullName   string `json:"full_name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ======================================================
// REGISTER
// ======================================================

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	birthday, err := parseOptionalDate(req.Birthday)
	if err != nil {
		httperr.BadRequest(c, "invalid_birthday", "birthday must be YYYY-MM-DD")
		return
	}

	user, err := h.register.Execute(c.Request.Context(), identity.RegisterUserInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Birthday:     birthday,
		Password:     req.Password,
		Role:         req.Role,
		Domain:       req.Domain,
		TenantDomain: middleware.TenantDomainFrom(c),
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue a session token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// ======================================================
// LOGIN
// ======================================================

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.login.Execute(c.Request.Context(), identity.AuthenticateInput{
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		TenantDomain: middleware.TenantDomainFrom(c),
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue a session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// ======================================================
// EXTERNAL LOGIN
// ======================================================

// ExternalLogin trades a verified identity-provider claim set for a local
// session, creating or linking the account as needed.
func (h *AuthHandler) ExternalLogin(c *gin.Context) {
	var req ExternalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.external.Execute(c.Request.Context(), identity.ExternalIdentityInput{
		ExternalID:   req.ExternalID,
		Email:        req.Email,
		FullName:     req.FullName,
		TenantDomain: middleware.TenantDomainFrom(c),
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue a session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// ======================================================
// PASSWORD RESET
// ======================================================

// ForgotPassword answers the same way whether or not the account exists,
// so the endpoint cannot be used to probe registered emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	err := h.forgot.Execute(c.Request.Context(), identity.RequestPasswordResetInput{
		Email:        req.Email,
		Role:         req.Role,
		TenantDomain: middleware.TenantDomainFrom(c),
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset_email_sent_if_account_exists"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	err := h.reset.Execute(c.Request.Context(), identity.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password_updated"})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if tenant := tenantClaim(user); tenant != "" {
		claims["tenant"] = tenant
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// tenantClaim names the tenant a session belongs to: a customeradmin is its
// own tenant, a client carries its owner. Administrators have none.
func tenantClaim(user *models.User) string {
	switch user.Role {
	case string(identdomain.RoleCustomerAdmin):
		return user.ID.String()
	case string(identdomain.RoleClient):
		if user.OwningTenantID != nil {
			return user.OwningTenantID.String()
		}
	}
	return ""
}
