package services

import "errors"

var (
	// ErrInvalidRequest indicates malformed or missing input
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound indicates a flight, passenger or booking row is absent
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds indicates the wallet cannot cover the requested fare
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrPersistence indicates the backing store failed; the call was rolled back
	ErrPersistence = errors.New("persistence failure")

	// ErrForbidden indicates the caller may not act on the resource
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates the resource already exists
	ErrConflict = errors.New("already exists")
)
