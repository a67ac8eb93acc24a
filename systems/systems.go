// Package systems lists the game systems campaigns can be created for.
package systems

import (
	"context"

	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/pkg/errors"
)

// System is one supported game system. The set is fixed by the schema.
type System struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Repo interface {
	List(ctx context.Context) ([]System, error)
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] systems repo is required")
	}
	return &Service{repo: repo}, nil
}

// List returns every supported system ordered by id. The set is seeded with
// the schema, so an empty result means the store is broken and is reported
// as errors.ErrNoSystems rather than as an empty list.
func (s *Service) List(ctx context.Context) ([]System, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Systems List] failed to read systems")
	}
	if len(list) == 0 {
		return nil, apperrors.ErrNoSystems
	}
	return list, nil
}
