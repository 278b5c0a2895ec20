package storage

import "errors"

// Storage errors shared by every backend.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRegistryIO wraps failures reading or writing the last-updated registry.
	ErrRegistryIO = errors.New("registry io")

	// ErrCatalogIO wraps failures reading or writing a catalog snapshot.
	ErrCatalogIO = errors.New("catalog io")
)
