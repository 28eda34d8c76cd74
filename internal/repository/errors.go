// Package repository defines the store interfaces used by the handlers and
// their MySQL, MongoDB and in-memory implementations.  The sentinel errors
// below are shared by every backend so that handlers can map failures to
// HTTP status codes without knowing which driver is in use.
package repository

import "errors"

// ErrNotFound is returned when a lookup, update or delete matches no record.
// Handlers translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index (username
// or email for identities).  Handlers translate it into 409.
var ErrDuplicate = errors.New("duplicate key")
