package sqlstore

import (
	"context"

	"github.com/jrsteele09/dmtool-server/internal/dbx"
	"github.com/jrsteele09/dmtool-server/systems"
	"github.com/pkg/errors"
)

// SystemRepo implements systems.Repo.
type SystemRepo struct {
	q       dbx.DBTX
	dialect dialect
}

var _ systems.Repo = (*SystemRepo)(nil)

func (r *SystemRepo) List(ctx context.Context) ([]systems.System, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM systems ORDER BY id`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var list []systems.System
	for rows.Next() {
		var s systems.System
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, errors.WithStack(err)
		}
		list = append(list, s)
	}
	return list, errors.WithStack(rows.Err())
}
