package repository

import "errors"

var (
	// ErrUsernameExists is returned when a create collides with an
	// existing username (compared case-insensitively).
	ErrUsernameExists = errors.New("username already exists")

	// ErrUserNotFound is returned by lookups and mutations that target a
	// user the directory does not hold.
	ErrUserNotFound = errors.New("user not found")
)
