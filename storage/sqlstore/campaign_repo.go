package sqlstore

import (
	"context"
	"database/sql"

	"github.com/jrsteele09/dmtool-server/campaigns"
	"github.com/jrsteele09/dmtool-server/internal/dbx"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/pkg/errors"
)

// CampaignRepo implements campaigns.Writer and campaigns.TxRunner. Errors
// other than uniqueness violations are returned with the driver's text
// unchanged.
type CampaignRepo struct {
	db      *sql.DB
	q       dbx.DBTX
	dialect dialect
}

var (
	_ campaigns.Writer   = (*CampaignRepo)(nil)
	_ campaigns.TxRunner = (*CampaignRepo)(nil)
)

func (r *CampaignRepo) InsertCampaign(ctx context.Context, campaign *campaigns.Campaign) (int64, error) {
	var id int64
	err := r.q.QueryRowContext(ctx,
		r.dialect.rebind(`INSERT INTO campaigns (author, system, name, password, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		campaign.AuthorID, campaign.SystemID, campaign.Name, campaign.SecretHash, toMillis(campaign.CreatedAt),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errors.Wrapf(apperrors.ErrDuplicate, "[CampaignRepo InsertCampaign] %s", campaign.Name)
		}
		return 0, errors.WithStack(err)
	}
	return id, nil
}

func (r *CampaignRepo) InsertOwnership(ctx context.Context, ownership campaigns.Ownership) error {
	_, err := r.q.ExecContext(ctx,
		r.dialect.rebind(`INSERT INTO gms (user_id, campaign_id) VALUES (?, ?)`),
		ownership.UserID, ownership.CampaignID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(apperrors.ErrDuplicate, "[CampaignRepo InsertOwnership] campaign %d", ownership.CampaignID)
		}
		return errors.WithStack(err)
	}
	return nil
}

func (r *CampaignRepo) DeleteCampaign(ctx context.Context, id int64, authorID string) error {
	res, err := r.q.ExecContext(ctx,
		r.dialect.rebind(`DELETE FROM campaigns WHERE id = ? AND author = ?`),
		id, authorID,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errors.Wrapf(apperrors.ErrNotFound, "[CampaignRepo DeleteCampaign] campaign %d", id)
	}
	return nil
}

// RunInTx runs fn with a repository bound to a single transaction.
func (r *CampaignRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, w campaigns.Writer) error) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &CampaignRepo{db: r.db, q: tx, dialect: r.dialect})
	})
}

// Get returns the campaign with id.
func (r *CampaignRepo) Get(ctx context.Context, id int64) (*campaigns.Campaign, error) {
	var (
		c         campaigns.Campaign
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT id, author, system, name, password, created_at FROM campaigns WHERE id = ?`),
		id,
	).Scan(&c.ID, &c.AuthorID, &c.SystemID, &c.Name, &c.SecretHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "[CampaignRepo Get] campaign %d", id)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.CreatedAt = fromMillis(createdAt)
	return &c, nil
}

// GMs returns the user ids assigned as GM of the campaign.
func (r *CampaignRepo) GMs(ctx context.Context, campaignID int64) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		r.dialect.rebind(`SELECT user_id FROM gms WHERE campaign_id = ? ORDER BY user_id`),
		campaignID,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WithStack(err)
		}
		ids = append(ids, id)
	}
	return ids, errors.WithStack(rows.Err())
}

// Orphans returns the ids of campaigns that have no GM row.
func (r *CampaignRepo) Orphans(ctx context.Context) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT c.id FROM campaigns c WHERE NOT EXISTS (SELECT 1 FROM gms g WHERE g.campaign_id = c.id) ORDER BY c.id`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WithStack(err)
		}
		ids = append(ids, id)
	}
	return ids, errors.WithStack(rows.Err())
}
