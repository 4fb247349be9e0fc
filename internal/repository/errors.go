package repository

import "errors"

// ErrNotFound is returned (wrapped) when a lookup or update targets an unknown id.
var ErrNotFound = errors.New("not found")
