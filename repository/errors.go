package repository

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrInvalidCursor      = errors.New("invalid cursor")
)
