package domain

import (
	"errors"
	"fmt"
)

// Not-found errors
var (
	ErrAccountNotFound = errors.New("account not found")                         // 404
	ErrTokenNotFound   = errors.New("verification token is invalid or expired") // 404
)

// Validation errors. Duplicate username and duplicate email are deliberately
// one error so callers cannot tell which field collided.
var (
	ErrDuplicateAccount = errors.New("username or email already exists") // 409
)

// Auth errors
var (
	ErrIncorrectPassword = errors.New("incorrect password") // 401
)

// Invalid-operation errors
var (
	ErrSelfFollow        = errors.New("an account cannot follow itself")    // 400
	ErrAlreadyVerified   = errors.New("account has already been verified")  // 409
	ErrVerifiedDowngrade = errors.New("verified status cannot be revoked")  // 400
)

// Referential-integrity errors
var (
	ErrTargetGone = errors.New("target account no longer exists") // 409
)

// StorageError wraps an unexpected fault from the storage backend. It is
// transient from the caller's point of view and safe to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err unless it is already part of the domain error
// taxonomy.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
