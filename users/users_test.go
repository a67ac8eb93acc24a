package users_test

import (
	"context"
	"testing"

	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/jrsteele09/dmtool-server/users"
	fakeuserrepo "github.com/jrsteele09/dmtool-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestUser_Identity(t *testing.T) {
	user := &users.User{ID: "user-alice", Username: "alice"}
	require.Equal(t, users.Identity{Subject: "user-alice", DisplayName: "alice"}, user.Identity())
	require.False(t, user.Identity().IsZero())
	require.True(t, users.Identity{DisplayName: "alice"}.IsZero())
}

func TestNormaliseUsername(t *testing.T) {
	require.Equal(t, "alice", users.NormaliseUsername("  alice\t"))
	require.Equal(t, "", users.NormaliseUsername("   "))
}

func TestFakeUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	user := &users.User{Username: "alice", PasswordHash: "digest"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	require.ErrorIs(t, repo.Create(ctx, &users.User{Username: "alice"}), apperrors.ErrUserExists)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, *user, *got)

	// Returned users are copies.
	got.PasswordHash = "changed"
	again, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "digest", again.PasswordHash)

	_, err = repo.GetByUsername(ctx, "bob")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
