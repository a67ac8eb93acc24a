package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/dmtool-server/credentials"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/jrsteele09/dmtool-server/token"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/pkg/errors"
)

// AccountService registers users and exchanges their credentials for session tokens.
type AccountService struct {
	users   users.UserRepo     // Repository for user data
	hasher  credentials.Hasher // Password digest scheme
	tokens  *token.Codec       // Issues session tokens
	nowTime func() time.Time   // nowTime function (injectable for testing)
}

// AccountServiceOption defines a function type to modify the AccountService instance.
type AccountServiceOption func(*AccountService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AccountServiceOption {
	return func(as *AccountService) {
		as.nowTime = nowFunc
	}
}

func NewAccountService(userRepo users.UserRepo, hasher credentials.Hasher, tokens *token.Codec, options ...AccountServiceOption) (*AccountService, error) {
	if userRepo == nil {
		return nil, errors.New("[NewAccountService] Users repo is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewAccountService] hasher is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewAccountService] token codec is required")
	}

	as := &AccountService{
		users:   userRepo,
		hasher:  hasher,
		tokens:  tokens,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(as)
	}
	return as, nil
}

// Register creates a user with the hashed password.
// A taken username fails with errors.ErrUserExists.
func (as *AccountService) Register(ctx context.Context, username, password string) (*users.User, error) {
	username = users.NormaliseUsername(username)
	if username == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, UsernameRequiredErr.Error())
	}
	if password == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, PasswordRequiredErr.Error())
	}

	digest, err := as.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "[Register] failed to hash password")
	}

	user := &users.User{
		Username:     username,
		PasswordHash: digest,
		DateJoined:   as.nowTime().UTC(),
	}
	if err := as.users.Create(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.ErrUserExists) {
			return nil, apperrors.ErrUserExists
		}
		return nil, errors.Wrap(err, "[Register] failed to create user")
	}
	return user, nil
}

// Authenticate checks the credentials and issues a session token.
// Unknown users fail with errors.ErrUserNotFound and wrong passwords with
// errors.ErrInvalidCredentials.
func (as *AccountService) Authenticate(ctx context.Context, username, password string) (*token.Token, error) {
	username = users.NormaliseUsername(username)
	if username == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, UsernameRequiredErr.Error())
	}

	user, err := as.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "[Authenticate] failed to get user")
	}

	if !as.hasher.Matches(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	tok, err := as.tokens.Issue(user.Identity())
	if err != nil {
		return nil, errors.Wrap(err, "[Authenticate] failed to issue token")
	}
	return tok, nil
}
