package auth

import "errors"

var (
	UsernameRequiredErr = errors.New("username is required")
	PasswordRequiredErr = errors.New("password is required")
)
