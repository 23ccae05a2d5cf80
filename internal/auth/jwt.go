// Package auth implements bearer-token issuance and validation for the API.
//
// Tokens are symmetric-key JWTs. Every issued token carries an expiry and a
// "type" discriminator ("access" or "refresh"); decoding validates signature,
// expiry, and structure, surfacing a single Authentication taxonomy error
// regardless of the specific cryptographic cause so that callers cannot
// distinguish why a credential was rejected.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docflow/go-hr-backend/internal/apperr"
	"github.com/docflow/go-hr-backend/internal/config"
)

// Token type discriminators stamped into every issued token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// reserved claim names lifted into Claims fields; everything else lands in
// the Extra map.
var reservedClaims = map[string]struct{}{
	"sub": {}, "exp": {}, "type": {}, "email": {}, "role": {}, "disabled": {},
}

// Claims is the decoded, validated content of a bearer credential.
//
// Subject, ExpiresAt, and TokenType are required; a token missing any of them
// is rejected at decode time. Email, Role, and Disabled are well-known
// application claims. Extra holds any remaining application claims verbatim.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	TokenType string

	Email    string
	Role     string
	Disabled bool

	Extra map[string]any
}

// JWT issues and verifies tokens with a fixed secret, HMAC algorithm, and
// per-class lifetimes. It is immutable after construction and safe for
// concurrent use.
type JWT struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWT builds a JWT issuer/verifier from configuration. Only the HMAC
// family is accepted; the algorithm string is validated here so that a
// misconfigured deployment fails at startup rather than per request.
func NewJWT(cfg config.JWTConfig) (*JWT, error) {
	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm %q", cfg.Algorithm)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT secret must not be empty")
	}
	if cfg.AccessExpires <= 0 || cfg.RefreshExpires <= 0 {
		return nil, fmt.Errorf("JWT token lifetimes must be positive")
	}
	return &JWT{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessExpires,
		refreshTTL: cfg.RefreshExpires,
	}, nil
}

// CreateAccessToken signs a short-lived access token for the given claims
// data. The expiry and "type" discriminator are stamped by this method and
// override any caller-provided values.
func (j *JWT) CreateAccessToken(data map[string]any) (string, error) {
	return j.create(data, TokenTypeAccess, j.accessTTL)
}

// CreateRefreshToken signs a long-lived refresh token for the given claims
// data.
func (j *JWT) CreateRefreshToken(data map[string]any) (string, error) {
	return j.create(data, TokenTypeRefresh, j.refreshTTL)
}

func (j *JWT) create(data map[string]any, tokenType string, ttl time.Duration) (string, error) {
	mc := jwt.MapClaims{}
	for k, v := range data {
		mc[k] = v
	}
	mc["exp"] = jwt.NewNumericDate(time.Now().UTC().Add(ttl))
	mc["type"] = tokenType

	signed, err := jwt.NewWithClaims(j.method, mc).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// DecodeToken parses and validates a token string and returns its claims.
//
// A token signed with a different key, past its expiry, structurally
// malformed, signed with an unexpected method, or missing a required claim
// (sub, exp, type) is rejected with an Authentication taxonomy error whose
// message is derived from the underlying failure.
func (j *JWT) DecodeToken(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, mc, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != j.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, apperr.Authentication("Invalid token: " + err.Error())
	}
	if !parsed.Valid {
		return nil, apperr.Authentication("Invalid token")
	}
	claims, err := claimsFromMap(mc)
	if err != nil {
		return nil, apperr.Authentication("Invalid token: " + err.Error())
	}
	return claims, nil
}

// VerifyTokenType reports whether the claims carry the expected token class.
func VerifyTokenType(c *Claims, expected string) bool {
	return c != nil && c.TokenType == expected
}

// claimsFromMap validates the required claims and lifts the well-known ones
// into the structured record; everything else is preserved in Extra.
func claimsFromMap(mc jwt.MapClaims) (*Claims, error) {
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("missing sub claim")
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("missing exp claim")
	}
	tokenType, _ := mc["type"].(string)
	if tokenType == "" {
		return nil, fmt.Errorf("missing type claim")
	}

	c := &Claims{
		Subject:   sub,
		ExpiresAt: exp.Time,
		TokenType: tokenType,
	}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	}
	if v, ok := mc["disabled"].(bool); ok {
		c.Disabled = v
	}
	for k, v := range mc {
		if _, ok := reservedClaims[k]; ok {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[k] = v
	}
	return c, nil
}
