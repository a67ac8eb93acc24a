// Package campaigns creates campaigns together with their GM assignment.
//
// A campaign row must never exist without at least one ownership (GM) row.
// The two inserts are separate store writes, so the Coordinator either runs
// them inside one store transaction or, by default, undoes the campaign
// insert when the ownership insert fails.
package campaigns

import "time"

// Campaign is a campaign record. ID is assigned by the store.
type Campaign struct {
	ID         int64     `json:"id"`
	AuthorID   string    `json:"author"`
	SystemID   int64     `json:"system"`
	Name       string    `json:"name"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Ownership assigns a user as GM of a campaign.
type Ownership struct {
	UserID     string `json:"user"`
	CampaignID int64  `json:"campaign"`
}
