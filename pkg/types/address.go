package types

import (
	"bytes"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// AccountAddressSize is the length of a raw account address.
	AccountAddressSize = 32
	// AccountAddressVersion is the Base58Check version byte of account
	// addresses.
	AccountAddressVersion byte = 1

	aliasPrefixSize = 29
)

// AccountAddress is the 32-byte address of an account on chain.
type AccountAddress [AccountAddressSize]byte

// AccountAddressFromBytes copies b into an address.
func AccountAddressFromBytes(b []byte) (AccountAddress, error) {
	var a AccountAddress
	if len(b) != AccountAddressSize {
		return a, &ExactSizeError{"account address", AccountAddressSize, len(b)}
	}
	copy(a[:], b)
	return a, nil
}

// AccountAddressFromBase58 parses the Base58Check form of an address.
func AccountAddressFromBase58(s string) (AccountAddress, error) {
	var a AccountAddress
	data, version, err := base58.CheckDecode(s)
	if err != nil {
		return a, &InvalidAddressError{s, ErrInvalidBase58}
	}
	if version != AccountAddressVersion {
		return a, &InvalidAddressError{s, ErrInvalidBase58Version}
	}
	a, err = AccountAddressFromBytes(data)
	if err != nil {
		return a, &InvalidAddressError{s, err}
	}
	return a, nil
}

// String returns the Base58Check form of the address.
func (a AccountAddress) String() string {
	return base58.CheckEncode(a[:], AccountAddressVersion)
}

// Bytes returns a copy of the raw address.
func (a AccountAddress) Bytes() []byte {
	return bytes.Clone(a[:])
}

// Alias returns the alias of the address with the given counter. All aliases
// share the first 29 bytes and differ in the trailing 3-byte counter.
func (a AccountAddress) Alias(counter uint32) AccountAddress {
	alias := a
	alias[29] = byte(counter >> 16)
	alias[30] = byte(counter >> 8)
	alias[31] = byte(counter)
	return alias
}

// IsAliasOf reports whether both addresses refer to the same account.
func (a AccountAddress) IsAliasOf(other AccountAddress) bool {
	return bytes.Equal(a[:aliasPrefixSize], other[:aliasPrefixSize])
}

func (a AccountAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountAddress) UnmarshalText(text []byte) error {
	parsed, err := AccountAddressFromBase58(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a AccountAddress) SerializeInto(buf *serial.Buffer) int {
	return buf.PutBytes(a[:])
}

// ReadAccountAddress decodes 32 raw address bytes.
func ReadAccountAddress(c *serial.Cursor) fn.Option[AccountAddress] {
	var a AccountAddress
	if !c.ReadInto(a[:]) {
		return fn.None[AccountAddress]()
	}
	return fn.Some(a)
}

// CredentialRegistrationIDSize is the length of a credential registration id.
const CredentialRegistrationIDSize = 48

// CredentialRegistrationID is the public identifier of an account credential.
// The account created by the first credential has the address derived from
// it.
type CredentialRegistrationID [CredentialRegistrationIDSize]byte

// NewCredentialRegistrationID validates and copies b.
func NewCredentialRegistrationID(b []byte) (CredentialRegistrationID, error) {
	var id CredentialRegistrationID
	if len(b) != CredentialRegistrationIDSize {
		return id, &ExactSizeError{
			"credential registration id", CredentialRegistrationIDSize, len(b),
		}
	}
	if b[0]>>7 != 1 {
		return id, ErrInvalidCredentialRegistrationID
	}
	copy(id[:], b)
	return id, nil
}

// CredentialRegistrationIDFromHex parses a hex encoded registration id.
func CredentialRegistrationIDFromHex(s string) (CredentialRegistrationID, error) {
	b, err := decodeHex(s)
	if err != nil {
		return CredentialRegistrationID{}, err
	}
	return NewCredentialRegistrationID(b)
}

// Address returns the address of the account created by the credential.
func (id CredentialRegistrationID) Address() AccountAddress {
	return AccountAddress(sha256.Sum256(id[:]))
}

func (id CredentialRegistrationID) String() string {
	return encodeHex(id[:])
}

func (id CredentialRegistrationID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *CredentialRegistrationID) UnmarshalText(text []byte) error {
	parsed, err := CredentialRegistrationIDFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id CredentialRegistrationID) SerializeInto(buf *serial.Buffer) int {
	return buf.PutBytes(id[:])
}

// ReadCredentialRegistrationID decodes a registration id, rejecting values
// without the leading bit set.
func ReadCredentialRegistrationID(c *serial.Cursor) fn.Option[CredentialRegistrationID] {
	return serial.ReadValid(c, func(c *serial.Cursor) fn.Option[CredentialRegistrationID] {
		var id CredentialRegistrationID
		if !c.ReadInto(id[:]) {
			return fn.None[CredentialRegistrationID]()
		}
		return fn.Some(id)
	}, func(id CredentialRegistrationID) bool {
		return id[0]>>7 == 1
	})
}
