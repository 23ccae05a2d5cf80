// Authentication HTTP handlers.
//
// This file exposes the identity endpoints:
//   - GET  /api/v1/me            (current user from access token)
//   - POST /api/v1/auth/refresh  (exchange refresh token for a new access token)
//
// Credential verification itself happens against tokens only; user records
// live behind the remote data platform and are not consulted here.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docflow/go-hr-backend/internal/apperr"
	"github.com/docflow/go-hr-backend/internal/audit"
	"github.com/docflow/go-hr-backend/internal/auth"
	"github.com/docflow/go-hr-backend/internal/http/middleware"
)

// MeResponse describes the authenticated principal, derived entirely from
// the presented access token.
type MeResponse struct {
	UserID   string         `json:"user_id" example:"u-1042"`
	Email    string         `json:"email,omitempty" example:"alice@example.com"`
	Role     string         `json:"role,omitempty" example:"hr_admin"`
	Disabled bool           `json:"disabled"`
	Claims   map[string]any `json:"claims,omitempty"`
}

// refreshRequest is the body of POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthHandlers groups the identity endpoints.
type AuthHandlers struct {
	jwt *auth.JWT
	log audit.Log
}

// NewAuthHandlers constructs AuthHandlers bound to the token issuer and the
// audit log.
func NewAuthHandlers(j *auth.JWT, log audit.Log) *AuthHandlers {
	return &AuthHandlers{jwt: j, log: log}
}

// Me handles GET /me. Requires middleware.RequireAuth upstream.
func (h *AuthHandlers) Me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		FailErr(c, apperr.Authentication("Not authenticated"))
		return
	}
	ok(c, http.StatusOK, MeResponse{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
		Disabled: claims.Disabled,
		Claims:   claims.Extra,
	})
}

// Refresh handles POST /auth/refresh.
//
// The presented token must be a valid refresh token; its application claims
// are carried over into the newly issued access token.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailErr(c, apperr.Validation("refresh_token is required"))
		return
	}

	claims, err := h.jwt.DecodeToken(req.RefreshToken)
	if err != nil {
		FailErr(c, err)
		return
	}
	if !auth.VerifyTokenType(claims, auth.TokenTypeRefresh) {
		FailErr(c, apperr.Authentication("Invalid token type"))
		return
	}
	if claims.Disabled {
		FailErr(c, apperr.Authorization("Inactive user"))
		return
	}

	data := map[string]any{"sub": claims.Subject}
	if claims.Email != "" {
		data["email"] = claims.Email
	}
	if claims.Role != "" {
		data["role"] = claims.Role
	}
	for k, v := range claims.Extra {
		data[k] = v
	}

	access, err := h.jwt.CreateAccessToken(data)
	if err != nil {
		FailErr(c, err)
		return
	}

	if _, err := h.log.Record(c.Request.Context(), audit.Event{
		EventType: audit.EventTokenRefreshed,
		Action:    "Access token refreshed",
		UserID:    claims.Subject,
		UserEmail: claims.Email,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.RequestIDFrom(c),
	}); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("audit record failed")
	}

	ok(c, http.StatusOK, gin.H{
		"access_token": access,
		"token_type":   "bearer",
	})
}
