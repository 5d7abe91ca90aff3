package model

import (
	"github.com/google/uuid"
)

// LoginRequest is the username/password exchange for a bearer token.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CurrentUserResponse is the /auth/me payload.
type CurrentUserResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Roles         RoleSet   `json:"roles"`
	EffectiveRole Role      `json:"effective_role"`
	TenantID      uuid.UUID `json:"tenant_id"`
	TenantName    string    `json:"tenant_name"`
	LogoURL       *string   `json:"logo_url"`
	IsSuperAdmin  bool      `json:"is_super_admin"`
}
