package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DevAuthKey is the signing key used when AUTH_KEY is unset. It is only
// accepted when ENV is DEV.
const DevAuthKey = "dev-secret-key"

type SecurityConfig interface {
	GetAuthKey() string
	GetTokenTTL() time.Duration
	GetTokenHeader() string
	GetHashScheme() string
	GetRateLimitPerMinute() int
	GetExposeStoreErrors() bool
	GetTrustForwardedFor() bool
}

type Security struct {
	AuthKey            string        `env:"AUTH_KEY"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	TokenHeader        string        `env:"TOKEN_HEADER" envDefault:"token"`
	HashScheme         string        `env:"HASH_SCHEME" envDefault:"md5"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"`
	ExposeStoreErrors  bool          `env:"EXPOSE_STORE_ERRORS" envDefault:"true"`
	TrustForwardedFor  bool          `env:"TRUST_FORWARDED_FOR" envDefault:"false"`
}

var _ SecurityConfig = Security{}

func (s Security) GetAuthKey() string {
	if s.AuthKey == "" {
		return DevAuthKey
	}
	return s.AuthKey
}

// GetTokenTTL is the lifetime of issued session tokens.
func (s Security) GetTokenTTL() time.Duration {
	return s.TokenTTL
}

func (s Security) GetTokenHeader() string {
	return s.TokenHeader
}

// GetHashScheme names the digest used for user passwords and campaign
// secrets. "md5" is the unsalted legacy format, "bcrypt" and "argon2id" are opt-in.
func (s Security) GetHashScheme() string {
	return strings.ToLower(s.HashScheme)
}

// GetRateLimitPerMinute returns the per-client request budget, 0 disables limiting.
func (s Security) GetRateLimitPerMinute() int {
	return s.RateLimitPerMinute
}

func (s Security) GetExposeStoreErrors() bool {
	return s.ExposeStoreErrors
}

// GetTrustForwardedFor reports whether X-Forwarded-For identifies the client.
// Only enable it behind a proxy that overwrites the header.
func (s Security) GetTrustForwardedFor() bool {
	return s.TrustForwardedFor
}

func (s Security) validate(env string) error {
	if env != EnvDev {
		key := strings.TrimSpace(s.AuthKey)
		if key == "" || key == DevAuthKey {
			return errors.Errorf("AUTH_KEY must be set outside %s", EnvDev)
		}
	} else if s.AuthKey != "" && strings.TrimSpace(s.AuthKey) == "" {
		return errors.New("AUTH_KEY must not be blank")
	}
	if s.TokenTTL <= 0 {
		return errors.Errorf("TOKEN_TTL must be positive, got %s", s.TokenTTL)
	}
	if strings.TrimSpace(s.TokenHeader) == "" {
		return errors.New("TOKEN_HEADER must not be empty")
	}
	if s.RateLimitPerMinute < 0 {
		return errors.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", s.RateLimitPerMinute)
	}
	return nil
}
