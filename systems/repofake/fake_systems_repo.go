package fakesystemsrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/jrsteele09/dmtool-server/systems"
)

var _ systems.Repo = (*FakeSystemsRepo)(nil)

type FakeSystemsRepo struct {
	systems map[int64]systems.System
	lock    sync.RWMutex

	// ListErr, when set, is returned by List.
	ListErr error
}

func NewFakeSystemsRepo(list ...systems.System) *FakeSystemsRepo {
	r := &FakeSystemsRepo{systems: make(map[int64]systems.System)}
	for _, s := range list {
		r.systems[s.ID] = s
	}
	return r
}

func (r *FakeSystemsRepo) List(_ context.Context) ([]systems.System, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.ListErr != nil {
		return nil, r.ListErr
	}
	list := make([]systems.System, 0, len(r.systems))
	for _, s := range r.systems {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Exists reports whether a system with the id is present.
func (r *FakeSystemsRepo) Exists(id int64) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.systems[id]
	return ok
}
