package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/dmtool-server/auth"
	"github.com/jrsteele09/dmtool-server/credentials"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/jrsteele09/dmtool-server/token"
	"github.com/jrsteele09/dmtool-server/users"
	fakeuserrepo "github.com/jrsteele09/dmtool-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr        = "1234"
	testUsername     = "alice"
	testUserPassword = "pw1"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testFixture holds all test dependencies
type testFixture struct {
	userRepo *fakeuserrepo.FakeUserRepo
	codec    *token.Codec
	service  *auth.AccountService
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := fakeuserrepo.NewFakeUserRepo()

	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)
	codec, err := token.NewCodec(signer, token.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, err)

	service, err := auth.NewAccountService(ur, credentials.LegacyDigest{}, codec, auth.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, err)

	return &testFixture{
		userRepo: ur,
		codec:    codec,
		service:  service,
	}
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hashed password", func(t *testing.T) {
		f := setupTestFixture(t)

		user, err := f.service.Register(ctx, " alice ", testUserPassword)
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, testUsername, user.Username)
		require.Equal(t, testNow, user.DateJoined)

		stored, err := f.userRepo.GetByUsername(ctx, testUsername)
		require.NoError(t, err)
		require.NotEqual(t, testUserPassword, stored.PasswordHash)
		require.True(t, credentials.LegacyDigest{}.Matches(testUserPassword, stored.PasswordHash))
	})

	t.Run("duplicate username", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Register(ctx, testUsername, testUserPassword)
		require.NoError(t, err)
		_, err = f.service.Register(ctx, testUsername, "other")
		require.ErrorIs(t, err, apperrors.ErrUserExists)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Register(ctx, "   ", testUserPassword)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		require.Contains(t, err.Error(), auth.UsernameRequiredErr.Error())

		_, err = f.service.Register(ctx, testUsername, "")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		require.Contains(t, err.Error(), auth.PasswordRequiredErr.Error())
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)

	registered, err := f.service.Register(ctx, testUsername, testUserPassword)
	require.NoError(t, err)

	t.Run("issues a token for the user", func(t *testing.T) {
		tok, err := f.service.Authenticate(ctx, testUsername, testUserPassword)
		require.NoError(t, err)
		require.Equal(t, users.Identity{Subject: registered.ID, DisplayName: testUsername}, tok.Identity)
		require.Equal(t, testNow, tok.IssuedAt)
		require.Equal(t, testNow.Add(24*time.Hour), tok.ExpiresAt)

		identity, err := f.codec.Verify(tok.Value)
		require.NoError(t, err)
		require.Equal(t, registered.Identity(), identity)
	})

	t.Run("wrong password", func(t *testing.T) {
		tok, err := f.service.Authenticate(ctx, testUsername, "pw2")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.Nil(t, tok)
	})

	t.Run("unknown user", func(t *testing.T) {
		tok, err := f.service.Authenticate(ctx, "bob", testUserPassword)
		require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		require.Nil(t, tok)
	})

	t.Run("empty username", func(t *testing.T) {
		_, err := f.service.Authenticate(ctx, "", testUserPassword)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}

func TestNewAccountService_RequiredDependencies(t *testing.T) {
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)
	codec, err := token.NewCodec(signer)
	require.NoError(t, err)
	ur := fakeuserrepo.NewFakeUserRepo()

	_, err = auth.NewAccountService(nil, credentials.LegacyDigest{}, codec)
	require.Error(t, err)
	_, err = auth.NewAccountService(ur, nil, codec)
	require.Error(t, err)
	_, err = auth.NewAccountService(ur, credentials.LegacyDigest{}, nil)
	require.Error(t, err)
}
