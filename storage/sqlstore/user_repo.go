package sqlstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jrsteele09/dmtool-server/internal/dbx"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/pkg/errors"
)

// UserRepo implements users.UserRepo.
type UserRepo struct {
	q       dbx.DBTX
	dialect dialect
}

var _ users.UserRepo = (*UserRepo)(nil)

// Create stores the user, assigning a new id when user.ID is empty.
func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	_, err := r.q.ExecContext(ctx,
		r.dialect.rebind(`INSERT INTO users (id, user_name, password, created_at) VALUES (?, ?, ?, ?)`),
		user.ID, user.Username, user.PasswordHash, toMillis(user.DateJoined),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(apperrors.ErrUserExists, "[UserRepo Create] %s", user.Username)
		}
		return errors.WithStack(err)
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	var (
		user      users.User
		createdAt int64
	)
	err := r.q.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT id, user_name, password, created_at FROM users WHERE user_name = ?`),
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(apperrors.ErrUserNotFound, "[UserRepo GetByUsername] %s", username)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	user.DateJoined = fromMillis(createdAt)
	return &user, nil
}
