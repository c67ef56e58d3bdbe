// Package apperr holds sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrRootNotFound  = errors.New("corpus root not found")
	ErrVerdictFail   = errors.New("relationship validation failed")
	ErrInvalidConfig = errors.New("invalid configuration")
)
