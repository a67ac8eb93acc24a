// Package credentials turns user passwords and campaign secrets into stored
// digests and checks candidates against them.
//
// The default scheme is the legacy unsalted MD5 hex digest that existing
// databases were written with. It is fast and unsalted, which makes stored
// digests cheap to brute force; it stays the default only because switching
// schemes changes the stored-credential format. Bcrypt and argon2id are
// available as explicit opt-ins.
package credentials

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeMD5    = "md5"
	SchemeBcrypt = "bcrypt"
	SchemeArgon2 = "argon2id"
)

// Hasher produces and verifies digests of secrets.
type Hasher interface {
	Hash(secret string) (string, error)
	Matches(secret, digest string) bool
}

// New returns the Hasher for the named scheme.
func New(scheme string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeMD5:
		return LegacyDigest{}, nil
	case SchemeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	case SchemeArgon2:
		return DefaultArgon2(), nil
	default:
		return nil, errors.Errorf("[credentials New] unknown hash scheme %q", scheme)
	}
}

// LegacyDigest is the unsalted MD5 hex digest.
type LegacyDigest struct{}

var _ Hasher = LegacyDigest{}

func (LegacyDigest) Hash(secret string) (string, error) {
	sum := md5.Sum([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

func (d LegacyDigest) Matches(secret, digest string) bool {
	candidate, _ := d.Hash(secret)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// Bcrypt salts and stretches each digest.
type Bcrypt struct {
	Cost int
}

var _ Hasher = Bcrypt{}

func (b Bcrypt) Hash(secret string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", errors.Wrap(err, "[Bcrypt Hash] failed to hash secret")
	}
	return string(digest), nil
}

func (Bcrypt) Matches(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
