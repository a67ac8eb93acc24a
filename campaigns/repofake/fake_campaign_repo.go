package fakecampaignrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/jrsteele09/dmtool-server/campaigns"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
)

var (
	_ campaigns.Writer   = (*FakeCampaignRepo)(nil)
	_ campaigns.TxRunner = (*FakeCampaignRepo)(nil)
)

// FakeCampaignRepo is an in-memory campaign store with fault injection.
// Setting one of the *Err fields makes the matching write fail with it.
type FakeCampaignRepo struct {
	lock      sync.RWMutex
	txLock    sync.Mutex // serialises RunInTx, like a single-writer database
	nextID    int64
	campaigns map[int64]campaigns.Campaign
	gms       map[int64]map[string]struct{} // campaign id to gm user ids
	systems   map[int64]struct{}

	InsertCampaignErr  error
	InsertOwnershipErr error
	DeleteCampaignErr  error
	BeginTxErr         error

	deleteCalls int
}

// NewFakeCampaignRepo creates an empty store. When systemIDs are given,
// inserting a campaign for any other system fails like a foreign key would.
func NewFakeCampaignRepo(systemIDs ...int64) *FakeCampaignRepo {
	r := &FakeCampaignRepo{
		campaigns: make(map[int64]campaigns.Campaign),
		gms:       make(map[int64]map[string]struct{}),
	}
	if len(systemIDs) > 0 {
		r.systems = make(map[int64]struct{}, len(systemIDs))
		for _, id := range systemIDs {
			r.systems[id] = struct{}{}
		}
	}
	return r
}

func (r *FakeCampaignRepo) InsertCampaign(_ context.Context, campaign *campaigns.Campaign) (int64, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.InsertCampaignErr != nil {
		return 0, r.InsertCampaignErr
	}
	if r.systems != nil {
		if _, ok := r.systems[campaign.SystemID]; !ok {
			return 0, errFakeForeignKey
		}
	}
	for _, existing := range r.campaigns {
		if existing.AuthorID == campaign.AuthorID && existing.Name == campaign.Name {
			return 0, apperrors.ErrDuplicate
		}
	}

	r.nextID++
	stored := *campaign
	stored.ID = r.nextID
	r.campaigns[stored.ID] = stored
	return stored.ID, nil
}

func (r *FakeCampaignRepo) InsertOwnership(_ context.Context, ownership campaigns.Ownership) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.InsertOwnershipErr != nil {
		return r.InsertOwnershipErr
	}
	if _, ok := r.campaigns[ownership.CampaignID]; !ok {
		return errFakeForeignKey
	}
	if _, ok := r.gms[ownership.CampaignID][ownership.UserID]; ok {
		return apperrors.ErrDuplicate
	}
	if r.gms[ownership.CampaignID] == nil {
		r.gms[ownership.CampaignID] = make(map[string]struct{})
	}
	r.gms[ownership.CampaignID][ownership.UserID] = struct{}{}
	return nil
}

func (r *FakeCampaignRepo) DeleteCampaign(_ context.Context, id int64, authorID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.deleteCalls++
	if r.DeleteCampaignErr != nil {
		return r.DeleteCampaignErr
	}
	existing, ok := r.campaigns[id]
	if !ok || existing.AuthorID != authorID {
		return apperrors.ErrNotFound
	}
	delete(r.campaigns, id)
	delete(r.gms, id)
	return nil
}

// RunInTx snapshots the store, runs fn and restores the snapshot when fn
// fails. Transactions run one at a time; writes made outside RunInTx are not
// isolated from them.
func (r *FakeCampaignRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, w campaigns.Writer) error) error {
	if r.BeginTxErr != nil {
		return r.BeginTxErr
	}
	r.txLock.Lock()
	defer r.txLock.Unlock()

	snapshot := r.snapshot()
	if err := fn(ctx, r); err != nil {
		r.restore(snapshot)
		return err
	}
	return nil
}

// Campaigns returns every stored campaign ordered by id.
func (r *FakeCampaignRepo) Campaigns() []campaigns.Campaign {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]campaigns.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

// GMs returns the gm user ids of a campaign, sorted.
func (r *FakeCampaignRepo) GMs(campaignID int64) []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]string, 0, len(r.gms[campaignID]))
	for userID := range r.gms[campaignID] {
		list = append(list, userID)
	}
	sort.Strings(list)
	return list
}

// Orphans returns the ids of campaigns that have no gm.
func (r *FakeCampaignRepo) Orphans() []int64 {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var ids []int64
	for id := range r.campaigns {
		if len(r.gms[id]) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DeleteCalls returns how many times DeleteCampaign was called.
func (r *FakeCampaignRepo) DeleteCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.deleteCalls
}

type snapshot struct {
	campaigns map[int64]campaigns.Campaign
	gms       map[int64]map[string]struct{}
}

func (r *FakeCampaignRepo) snapshot() snapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	s := snapshot{
		campaigns: make(map[int64]campaigns.Campaign, len(r.campaigns)),
		gms:       make(map[int64]map[string]struct{}, len(r.gms)),
	}
	for id, c := range r.campaigns {
		s.campaigns[id] = c
	}
	for id, users := range r.gms {
		copied := make(map[string]struct{}, len(users))
		for u := range users {
			copied[u] = struct{}{}
		}
		s.gms[id] = copied
	}
	return s
}

func (r *FakeCampaignRepo) restore(s snapshot) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.campaigns = s.campaigns
	r.gms = s.gms
}
