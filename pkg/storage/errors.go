package storage

import "errors"

// ErrNotFound is returned when a request id does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyProcessed is returned when a request is no longer in a state that allows the attempted transition.
var ErrAlreadyProcessed = errors.New("request already processed")

// ErrInsufficientBalance is returned when a debit would take a sub-account below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrTransientConflict is returned when a transaction could not commit within its retry budget.
var ErrTransientConflict = errors.New("transient conflict")

// ErrMalformedRecord is returned when a stored document fails schema validation.
var ErrMalformedRecord = errors.New("malformed record")

// ErrConflict is reported by a Tx commit when a read document changed underneath it.
// Transactors retry on it and never return it to callers.
var ErrConflict = errors.New("write conflict")

// ErrInvalidCursor is returned when a pagination cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")
