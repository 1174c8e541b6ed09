package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBase58 ...
	ErrInvalidBase58 = errors.New("invalid base58check encoding")
	// ErrInvalidBase58Version ...
	ErrInvalidBase58Version = errors.New("unexpected base58check version byte")
	// ErrInvalidHex ...
	ErrInvalidHex = errors.New("invalid hex string")
	// ErrInvalidCredentialRegistrationID ...
	ErrInvalidCredentialRegistrationID = errors.New(
		"credential registration id must have its first bit set",
	)
	// ErrUnsupportedKeyScheme ...
	ErrUnsupportedKeyScheme = errors.New("unsupported verify key scheme")
)

// SizeError is returned when a bounded blob exceeds its maximum length.
type SizeError struct {
	Type   string
	Max    int
	Actual int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf(
		"%s must be at most %d bytes, got %d", e.Type, e.Max, e.Actual,
	)
}

// ExactSizeError is returned when a fixed-size value gets the wrong number of
// bytes.
type ExactSizeError struct {
	Type     string
	Expected int
	Actual   int
}

func (e *ExactSizeError) Error() string {
	return fmt.Sprintf(
		"%s must be exactly %d bytes, got %d", e.Type, e.Expected, e.Actual,
	)
}

// NameError is returned when a contract function name breaks one of its
// format rules.
type NameError struct {
	Type   string
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Type, e.Name, e.Reason)
}

// InvalidAddressError wraps the reason an account address could not be
// parsed.
type InvalidAddressError struct {
	Address string
	Err     error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid account address %q: %s", e.Address, e.Err)
}

func (e *InvalidAddressError) Unwrap() error {
	return e.Err
}
