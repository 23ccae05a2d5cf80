package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docflow/go-hr-backend/internal/apperr"
	"github.com/docflow/go-hr-backend/internal/auth"
)

// claimsKey is the Gin context key under which decoded token claims are stored.
const claimsKey = "claims"

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive. Returns "" when the
// header is absent or not a bearer credential.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// abortAuth writes a standard error envelope and stops the chain.
func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"error":      code,
		"message":    message,
		"request_id": RequestIDFrom(c),
	})
}

// RequireAuth resolves the current user from a bearer access token and aborts
// with 401 when no valid credential is presented.
//
// On success the decoded claims are stored in the Gin context (retrieve with
// ClaimsFrom) and the subject is exposed under "userID" for the access log
// and rate limiter.
func RequireAuth(j *auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortAuth(c, http.StatusUnauthorized, apperr.CodeAuthentication, "Not authenticated")
			return
		}
		claims, err := j.DecodeToken(token)
		if err != nil {
			msg := "Not authenticated"
			if e, ok := apperr.As(err); ok {
				msg = e.Message
			}
			abortAuth(c, http.StatusUnauthorized, apperr.CodeAuthentication, msg)
			return
		}
		if !auth.VerifyTokenType(claims, auth.TokenTypeAccess) {
			abortAuth(c, http.StatusUnauthorized, apperr.CodeAuthentication, "Invalid token type")
			return
		}
		c.Set(claimsKey, claims)
		c.Set("userID", claims.Subject)
		c.Next()
	}
}

// OptionalAuth resolves claims when a valid bearer access token is presented
// and continues anonymously otherwise. Invalid credentials are ignored, not
// rejected; handlers that need a guaranteed identity use RequireAuth.
func OptionalAuth(j *auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := j.DecodeToken(token); err == nil && auth.VerifyTokenType(claims, auth.TokenTypeAccess) {
				c.Set(claimsKey, claims)
				c.Set("userID", claims.Subject)
			}
		}
		c.Next()
	}
}

// RequireRoles gates a route to active users holding one of the given roles.
// Must run after RequireAuth. Disabled accounts are rejected regardless of
// role.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			abortAuth(c, http.StatusUnauthorized, apperr.CodeAuthentication, "Not authenticated")
			return
		}
		if claims.Disabled {
			abortAuth(c, http.StatusForbidden, apperr.CodeAuthorization, "Inactive user")
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			abortAuth(c, http.StatusForbidden, apperr.CodeAuthorization,
				"Role '"+claims.Role+"' is not permitted; requires one of: "+strings.Join(roles, ", "))
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth/OptionalAuth, or nil
// for anonymous requests.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}
