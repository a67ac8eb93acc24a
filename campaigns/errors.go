package campaigns

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDuplicateCampaign is returned when the author already has a campaign with the name.
var ErrDuplicateCampaign = errors.New("duplicate campaign name for user")

// StoreError is a store failure of the campaign insert. Error returns the
// store's message unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// RecoverableError is a failed GM assignment whose campaign insert was undone.
// The store is consistent; the request can be repeated. Error returns the
// assignment failure unchanged.
type RecoverableError struct {
	Name string
	Err  error
}

func (e *RecoverableError) Error() string {
	return e.Err.Error()
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

// InconsistentStateError is a failed GM assignment whose campaign could not be
// removed afterwards. The campaign identified by CampaignID is left without a
// GM and needs manual intervention.
type InconsistentStateError struct {
	AuthorID          string
	Name              string
	CampaignID        int64
	Cause             error // GM assignment failure
	CompensationCause error // campaign removal failure
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("inconsistent state: campaign %q (id %d) of author %s has no gm and could not be removed: assign: %v; remove: %v",
		e.Name, e.CampaignID, e.AuthorID, e.Cause, e.CompensationCause)
}

func (e *InconsistentStateError) Unwrap() []error {
	return []error{e.Cause, e.CompensationCause}
}
