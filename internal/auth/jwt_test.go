package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docflow/go-hr-backend/internal/apperr"
	"github.com/docflow/go-hr-backend/internal/config"
)

func newTestJWT(t *testing.T) *JWT {
	t.Helper()
	j, err := NewJWT(config.JWTConfig{
		Secret:         "unit-test-secret",
		Algorithm:      "HS256",
		AccessExpires:  30 * time.Minute,
		RefreshExpires: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	return j
}

func TestNewJWT_RejectsBadConfig(t *testing.T) {
	cases := []config.JWTConfig{
		{Secret: "s", Algorithm: "RS256", AccessExpires: time.Minute, RefreshExpires: time.Hour},
		{Secret: "", Algorithm: "HS256", AccessExpires: time.Minute, RefreshExpires: time.Hour},
		{Secret: "s", Algorithm: "HS256", AccessExpires: 0, RefreshExpires: time.Hour},
	}
	for _, cfg := range cases {
		if _, err := NewJWT(cfg); err == nil {
			t.Fatalf("expected error for config %+v", cfg)
		}
	}
}

func TestRoundTrip_AccessToken(t *testing.T) {
	j := newTestJWT(t)

	tok, err := j.CreateAccessToken(map[string]any{
		"sub":        "user-1",
		"email":      "ada@example.com",
		"role":       "admin",
		"disabled":   false,
		"department": "engineering", // application claim outside the schema
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	claims, err := j.DecodeToken(tok)
	if err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "ada@example.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %q", claims.TokenType)
	}
	if claims.Disabled {
		t.Fatalf("disabled must be false")
	}
	if got := claims.Extra["department"]; got != "engineering" {
		t.Fatalf("extra claim lost: %v", claims.Extra)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Fatalf("expiry must be in the future, got %v", claims.ExpiresAt)
	}
}

func TestRoundTrip_RefreshTokenType(t *testing.T) {
	j := newTestJWT(t)

	tok, err := j.CreateRefreshToken(map[string]any{"sub": "user-2"})
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}
	claims, err := j.DecodeToken(tok)
	if err != nil {
		t.Fatalf("DecodeToken: %v", err)
	}
	if !VerifyTokenType(claims, TokenTypeRefresh) {
		t.Fatalf("expected refresh type, got %q", claims.TokenType)
	}
	if VerifyTokenType(claims, TokenTypeAccess) {
		t.Fatalf("refresh token must not verify as access")
	}
}

// All three rejection causes must surface the same Authentication kind.
func TestDecodeToken_RejectionsAreAuthenticationErrors(t *testing.T) {
	j := newTestJWT(t)

	// (a) signed with a different key
	other, err := NewJWT(config.JWTConfig{
		Secret: "a-different-secret", Algorithm: "HS256",
		AccessExpires: time.Minute, RefreshExpires: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWT: %v", err)
	}
	foreign, err := other.CreateAccessToken(map[string]any{"sub": "user-3"})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	// (b) past its exp
	expired := signRaw(t, jwt.MapClaims{
		"sub":  "user-3",
		"type": TokenTypeAccess,
		"exp":  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}, "unit-test-secret")

	cases := map[string]string{
		"wrong key": foreign,
		"expired":   expired,
		"malformed": "not.a.jwt",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := j.DecodeToken(tok)
			if err == nil {
				t.Fatalf("expected rejection")
			}
			e, ok := apperr.As(err)
			if !ok || e.Kind != apperr.KindAuthentication {
				t.Fatalf("expected authentication kind, got %v", err)
			}
			if !strings.HasPrefix(e.Message, "Invalid token") {
				t.Fatalf("message = %q", e.Message)
			}
		})
	}
}

func TestDecodeToken_MissingRequiredClaims(t *testing.T) {
	j := newTestJWT(t)

	cases := map[string]jwt.MapClaims{
		"no sub":  {"type": TokenTypeAccess, "exp": jwt.NewNumericDate(time.Now().Add(time.Hour))},
		"no exp":  {"sub": "u", "type": TokenTypeAccess},
		"no type": {"sub": "u", "exp": jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	for name, mc := range cases {
		t.Run(name, func(t *testing.T) {
			tok := signRaw(t, mc, "unit-test-secret")
			if _, err := j.DecodeToken(tok); !apperr.IsKind(err, apperr.KindAuthentication) {
				t.Fatalf("expected authentication error, got %v", err)
			}
		})
	}
}

func TestDecodeToken_RejectsForeignSigningMethod(t *testing.T) {
	j := newTestJWT(t)

	// HS512-signed token presented to an HS256 verifier.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":  "u",
		"type": TokenTypeAccess,
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("unit-test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := j.DecodeToken(tok); !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestVerifyTokenType_NilClaims(t *testing.T) {
	if VerifyTokenType(nil, TokenTypeAccess) {
		t.Fatalf("nil claims must never verify")
	}
}

// signRaw signs arbitrary claims with HS256, bypassing the issuer's stamping.
func signRaw(t *testing.T, mc jwt.MapClaims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}
