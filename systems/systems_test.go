package systems_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/jrsteele09/dmtool-server/systems"
	fakesystemsrepo "github.com/jrsteele09/dmtool-server/systems/repofake"
	"github.com/stretchr/testify/require"
)

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered by id", func(t *testing.T) {
		repo := fakesystemsrepo.NewFakeSystemsRepo(
			systems.System{ID: 3, Name: "Call of Cthulhu"},
			systems.System{ID: 1, Name: "Dungeons & Dragons 5e"},
		)
		svc, err := systems.NewService(repo)
		require.NoError(t, err)

		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []systems.System{
			{ID: 1, Name: "Dungeons & Dragons 5e"},
			{ID: 3, Name: "Call of Cthulhu"},
		}, list)
	})

	t.Run("empty set is an invariant violation", func(t *testing.T) {
		svc, err := systems.NewService(fakesystemsrepo.NewFakeSystemsRepo())
		require.NoError(t, err)

		list, err := svc.List(ctx)
		require.ErrorIs(t, err, apperrors.ErrNoSystems)
		require.Nil(t, list)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := fakesystemsrepo.NewFakeSystemsRepo()
		repo.ListErr = errors.New("database is locked")
		svc, err := systems.NewService(repo)
		require.NoError(t, err)

		_, err = svc.List(ctx)
		require.Error(t, err)
		require.Contains(t, err.Error(), "database is locked")
		require.NotErrorIs(t, err, apperrors.ErrNoSystems)
	})
}

func TestNewService_RequiresRepo(t *testing.T) {
	_, err := systems.NewService(nil)
	require.Error(t, err)
}
