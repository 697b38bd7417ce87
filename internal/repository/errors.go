package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrForeignKey indicates a referenced record does not exist.
	ErrForeignKey = errors.New("repository: referenced record missing")
)
