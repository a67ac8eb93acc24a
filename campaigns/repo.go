package campaigns

import "context"

// Writer is the set of single-statement store writes the Coordinator needs.
//
// InsertCampaign returns the generated campaign id and fails with
// errors.ErrDuplicate when (AuthorID, Name) already exists. DeleteCampaign
// removes the campaign with the id only when it belongs to authorID and fails
// with errors.ErrNotFound when no such row exists.
type Writer interface {
	InsertCampaign(ctx context.Context, campaign *Campaign) (int64, error)
	InsertOwnership(ctx context.Context, ownership Ownership) error
	DeleteCampaign(ctx context.Context, id int64, authorID string) error
}

// TxRunner is implemented by stores that can run several writes atomically.
// fn receives a Writer bound to the transaction; the transaction commits when
// fn returns nil and rolls back otherwise.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}
