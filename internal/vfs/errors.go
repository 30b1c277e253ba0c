package vfs

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrNotADirectory         = errors.New("not a directory")
	ErrNoSuchDirectory       = errors.New("no such directory")
	ErrNoSuchFile            = errors.New("no such file")
	ErrInsufficientClearance = errors.New("insufficient clearance")
	ErrExists                = errors.New("already exists")
)
