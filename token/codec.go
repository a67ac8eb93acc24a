// Package token issues and verifies the signed, time-limited session tokens
// that assert a user's identity.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/pkg/errors"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 24 * time.Hour

var (
	// ErrMissing is returned when a request carries no token at all.
	ErrMissing = errors.New("no token provided")
	// ErrInvalid covers bad signatures, malformed tokens and expired tokens.
	ErrInvalid = errors.New("invalid token")
)

// Claims is the signed payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// Token is an issued session token and the values it was signed with.
type Token struct {
	Value     string
	Identity  users.Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and verifies tokens with a single signer.
type Codec struct {
	signer  Signer
	ttl     time.Duration
	nowTime func() time.Time
}

// CodecOption defines a function type to modify the Codec instance.
type CodecOption func(*Codec)

// WithNowTime sets the clock used for issuing and expiry checks (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewCodec(signer Signer, options ...CodecOption) (*Codec, error) {
	if signer == nil {
		return nil, errors.New("[NewCodec] signer is required")
	}
	c := &Codec{
		signer:  signer,
		ttl:     DefaultTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for the identity, valid for the codec TTL from now.
func (c *Codec) Issue(identity users.Identity) (*Token, error) {
	if identity.IsZero() {
		return nil, errors.New("[Codec Issue] identity has no subject")
	}

	// Numeric dates carry whole seconds; truncate so Token matches the claims.
	issuedAt := c.nowTime().Truncate(time.Second)
	expiresAt := issuedAt.Add(c.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
		Name: identity.DisplayName,
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return nil, errors.Wrap(err, "[Codec Issue] failed to sign token")
	}

	return &Token{
		Value:     signed,
		Identity:  identity,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the token signature and expiry and returns the identity it
// asserts. Every failure is reported as ErrInvalid.
func (c *Codec) Verify(raw string) (users.Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return users.Identity{}, ErrMissing
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, c.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.nowTime),
	)
	if err != nil {
		return users.Identity{}, errors.Wrapf(ErrInvalid, "[Codec Verify] %v", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return users.Identity{}, ErrInvalid
	}

	return users.Identity{Subject: claims.Subject, DisplayName: claims.Name}, nil
}
