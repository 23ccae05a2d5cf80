package config

import (
	"reflect"
	"testing"
	"time"
)

// setRequired fills the variables without defaults so Load can succeed.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	setRequired(t)

	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// App identity
	t.Setenv("APP_NAME", "DocFlow HR Test")
	t.Setenv("ENVIRONMENT", "Staging") // lowercased
	t.Setenv("DEBUG", "on")

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// ZeroDB
	t.Setenv("ZERODB_BASE_URL", "https://zerodb.example.com/api/v1/") // trailing slash stripped
	t.Setenv("ZERODB_API_KEY", "zk-123")
	t.Setenv("ZERODB_PROJECT_ID", "proj-42")
	t.Setenv("ZERODB_TIMEOUT", "5s")

	// JWT
	t.Setenv("JWT_ALGORITHM", "hs384") // uppercased
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRE_DAYS", "3")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ORIGINS", " https://a.com , , http://b ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second || cfg.MaxHeaderBytes != 8192 {
		t.Fatalf("server config mismatch: %+v", cfg)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q, want normalized release", cfg.GinMode)
	}
	if cfg.AppName != "DocFlow HR Test" || cfg.Environment != "staging" || !cfg.Debug {
		t.Fatalf("app identity mismatch: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty {
		t.Fatalf("logging mismatch: %+v", cfg)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.ZeroDB.BaseURL != "https://zerodb.example.com/api/v1" {
		t.Fatalf("ZeroDB.BaseURL = %q", cfg.ZeroDB.BaseURL)
	}
	if cfg.ZeroDB.APIKey != "zk-123" || cfg.ZeroDB.ProjectID != "proj-42" || cfg.ZeroDB.Timeout != 5*time.Second {
		t.Fatalf("ZeroDB config mismatch: %+v", cfg.ZeroDB)
	}
	if cfg.JWT.Algorithm != "HS384" {
		t.Fatalf("JWT.Algorithm = %q", cfg.JWT.Algorithm)
	}
	if cfg.JWT.AccessExpires != 15*time.Minute || cfg.JWT.RefreshExpires != 3*24*time.Hour {
		t.Fatalf("JWT lifetimes mismatch: %+v", cfg.JWT)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limit fallback mismatch: %+v", cfg)
	}
	if want := []string{"https://a.com", "http://b"}; !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("CORS origins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
}

// --- validation failures ---

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET_KEY": ""}},
		{"bad jwt algorithm", map[string]string{"JWT_ALGORITHM": "RS256"}},
		{"zero zerodb timeout", map[string]string{"ZERODB_TIMEOUT": "-1s"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "chatty"}},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}},
		{"bad sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}},
		{"zero access lifetime", map[string]string{"JWT_ACCESS_TOKEN_EXPIRE_MINUTES": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, bad := tc.env["JWT_SECRET_KEY"]; !bad {
				setRequired(t)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
