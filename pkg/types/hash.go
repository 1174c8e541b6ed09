package types

import (
	"encoding/hex"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// HashSize is the length of every 32-byte hash identifier.
const HashSize = 32

// TransactionHash identifies a submitted block item.
type TransactionHash [HashSize]byte

// BlockHash identifies a block.
type BlockHash [HashSize]byte

// ModuleReference identifies a deployed smart contract module.
type ModuleReference [HashSize]byte

func encodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHex, err)
	}
	return b, nil
}

func hashFromHex(typeName, s string) ([HashSize]byte, error) {
	var h [HashSize]byte
	b, err := decodeHex(s)
	if err != nil {
		return h, err
	}
	if len(b) != HashSize {
		return h, &ExactSizeError{typeName, HashSize, len(b)}
	}
	copy(h[:], b)
	return h, nil
}

func readHash(c *serial.Cursor) fn.Option[[HashSize]byte] {
	var h [HashSize]byte
	if !c.ReadInto(h[:]) {
		return fn.None[[HashSize]byte]()
	}
	return fn.Some(h)
}

// TransactionHashFromHex parses a hex encoded transaction hash.
func TransactionHashFromHex(s string) (TransactionHash, error) {
	h, err := hashFromHex("transaction hash", s)
	return TransactionHash(h), err
}

func (h TransactionHash) String() string {
	return encodeHex(h[:])
}

func (h TransactionHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *TransactionHash) UnmarshalText(text []byte) (err error) {
	*h, err = TransactionHashFromHex(string(text))
	return
}

func (h TransactionHash) SerializeInto(buf *serial.Buffer) int {
	return buf.PutBytes(h[:])
}

func ReadTransactionHash(c *serial.Cursor) fn.Option[TransactionHash] {
	return fn.MapOption(func(h [HashSize]byte) TransactionHash {
		return TransactionHash(h)
	})(readHash(c))
}

// BlockHashFromHex parses a hex encoded block hash.
func BlockHashFromHex(s string) (BlockHash, error) {
	h, err := hashFromHex("block hash", s)
	return BlockHash(h), err
}

func (h BlockHash) String() string {
	return encodeHex(h[:])
}

func (h BlockHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *BlockHash) UnmarshalText(text []byte) (err error) {
	*h, err = BlockHashFromHex(string(text))
	return
}

func (h BlockHash) SerializeInto(buf *serial.Buffer) int {
	return buf.PutBytes(h[:])
}

func ReadBlockHash(c *serial.Cursor) fn.Option[BlockHash] {
	return fn.MapOption(func(h [HashSize]byte) BlockHash {
		return BlockHash(h)
	})(readHash(c))
}

// ModuleReferenceFromHex parses a hex encoded module reference.
func ModuleReferenceFromHex(s string) (ModuleReference, error) {
	h, err := hashFromHex("module reference", s)
	return ModuleReference(h), err
}

func (r ModuleReference) String() string {
	return encodeHex(r[:])
}

func (r ModuleReference) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ModuleReference) UnmarshalText(text []byte) (err error) {
	*r, err = ModuleReferenceFromHex(string(text))
	return
}

func (r ModuleReference) SerializeInto(buf *serial.Buffer) int {
	return buf.PutBytes(r[:])
}

func ReadModuleReference(c *serial.Cursor) fn.Option[ModuleReference] {
	return fn.MapOption(func(h [HashSize]byte) ModuleReference {
		return ModuleReference(h)
	})(readHash(c))
}
