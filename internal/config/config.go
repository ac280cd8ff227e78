package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	AuthIssuer    string `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL   string `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience  string `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`

	// Role sets consumed by the visit transition policy. Forward roles may
	// move a visit along its normal lifecycle; reopen roles may move a
	// completed visit back to open.
	ForwardTransitionRoles []string `mapstructure:"FORWARD_TRANSITION_ROLES"`
	ReopenRoles            []string `mapstructure:"REOPEN_ROLES"`

	// When true, nursing assessments carrying a fall-risk category outside
	// the documented enums are rejected instead of scored at the lowest
	// weight.
	ScoringStrictCategories bool `mapstructure:"SCORING_STRICT_CATEGORIES"`

	// Deadline for a single transition request, including the assessment
	// existence reads and the status write.
	TransitionTimeoutMS int `mapstructure:"TRANSITION_TIMEOUT_MS"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("FORWARD_TRANSITION_ROLES", "nurse,physician,admin")
	v.SetDefault("REOPEN_ROLES", "admin")
	v.SetDefault("SCORING_STRICT_CATEGORIES", false)
	v.SetDefault("TRANSITION_TIMEOUT_MS", 5000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("FORWARD_TRANSITION_ROLES")
	v.BindEnv("REOPEN_ROLES")
	v.BindEnv("SCORING_STRICT_CATEGORIES")
	v.BindEnv("TRANSITION_TIMEOUT_MS")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated strings from the environment don't unmarshal into
	// slices; split them by hand.
	if cfg.ForwardTransitionRoles == nil {
		cfg.ForwardTransitionRoles = splitList(v.GetString("FORWARD_TRANSITION_ROLES"))
	}
	if cfg.ReopenRoles == nil {
		cfg.ReopenRoles = splitList(v.GetString("REOPEN_ROLES"))
	}
	if cfg.CORSOrigins == nil {
		cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — unauthenticated requests get admin access.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In production a real
// token verification path must be configured (issuer/JWKS or an explicit
// signing key), and the engine's role and timeout knobs must be coherent.
func (c *Config) Validate() error {
	if c.IsProduction() && c.AuthIssuer == "" && c.AuthJWKSURL == "" && c.JWTSigningKey == "" {
		return fmt.Errorf("AUTH_ISSUER, AUTH_JWKS_URL, or JWT_SIGNING_KEY must be set in production. " +
			"Refusing to start without authentication configuration")
	}
	if len(c.ForwardTransitionRoles) == 0 {
		return fmt.Errorf("FORWARD_TRANSITION_ROLES must name at least one role")
	}
	if len(c.ReopenRoles) == 0 {
		return fmt.Errorf("REOPEN_ROLES must name at least one role")
	}
	if c.TransitionTimeoutMS <= 0 {
		return fmt.Errorf("TRANSITION_TIMEOUT_MS must be positive, got %d", c.TransitionTimeoutMS)
	}
	return nil
}
