package users

import "context"

// UserRepo persists user accounts. Create fails with errors.ErrUserExists when
// the username is taken; lookups fail with errors.ErrUserNotFound.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}
