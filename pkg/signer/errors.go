package signer

import (
	"errors"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/types"
)

var (
	// ErrNoKeys ...
	ErrNoKeys = errors.New("signer holds no keys")
	// ErrUninitializedKey ...
	ErrUninitializedKey = errors.New("key is not initialized")
	// ErrKeyMismatch ...
	ErrKeyMismatch = errors.New("sign key does not match verify key")
	// ErrUnknownKey ...
	ErrUnknownKey = errors.New("no public key for signature")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrThresholdNotMet ...
	ErrThresholdNotMet = errors.New("signature threshold not met")
	// ErrUnsupportedExport ...
	ErrUnsupportedExport = errors.New("unsupported key export")
)

// KeyError ties a failure to the key it happened with.
type KeyError struct {
	Credential types.CredentialIndex
	Key        types.KeyIndex
	Err        error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("credential %d key %d: %s", e.Credential, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// MissingCredentialError is returned when signing a credential deployment
// with keys that do not include the deployed credential.
type MissingCredentialError struct {
	Index types.CredentialIndex
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("no keys for credential %d", e.Index)
}
