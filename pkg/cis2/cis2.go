// Package cis2 encodes the parameters of the CIS-2 token standard. Contract
// parameters use little-endian integers throughout.
package cis2

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// TokenIDMaxSize is the longest token id in bytes.
	TokenIDMaxSize = 255
	// TokenAmountMaxBytes is the longest LEB128 encoding of a token amount.
	TokenAmountMaxBytes = 37
	// AdditionalDataMaxSize is the largest data blob attached to a transfer.
	AdditionalDataMaxSize = 65535
)

var (
	// ErrNegativeAmount ...
	ErrNegativeAmount = errors.New("token amount must not be negative")
	// ErrAmountTooLarge ...
	ErrAmountTooLarge = errors.New("token amount exceeds 2^256-1")

	maxTokenAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// TokenID identifies a token within a contract.
type TokenID []byte

// NewTokenID validates the size of id.
func NewTokenID(id []byte) (TokenID, error) {
	if len(id) > TokenIDMaxSize {
		return nil, &types.SizeError{Type: "token id", Max: TokenIDMaxSize, Actual: len(id)}
	}
	return TokenID(id), nil
}

func (id TokenID) String() string {
	return fmt.Sprintf("%x", []byte(id))
}

func (id TokenID) SerializeInto(buf *serial.Buffer) int {
	return buf.PutPrefixedBytes(serial.Width8, id)
}

func ReadTokenID(c *serial.Cursor) fn.Option[TokenID] {
	return fn.MapOption(func(b []byte) TokenID { return TokenID(b) })(
		c.PrefixedBytes(serial.Width8),
	)
}

// TokenAmount is an unsigned amount of at most 256 bits.
type TokenAmount struct {
	v *big.Int
}

// NewTokenAmount validates the range of v.
func NewTokenAmount(v *big.Int) (TokenAmount, error) {
	if v == nil {
		return TokenAmount{new(big.Int)}, nil
	}
	if v.Sign() < 0 {
		return TokenAmount{}, ErrNegativeAmount
	}
	if v.Cmp(maxTokenAmount) > 0 {
		return TokenAmount{}, ErrAmountTooLarge
	}
	return TokenAmount{new(big.Int).Set(v)}, nil
}

// TokenAmountFromUint64 never fails.
func TokenAmountFromUint64(v uint64) TokenAmount {
	return TokenAmount{new(big.Int).SetUint64(v)}
}

// Int returns a copy of the amount.
func (a TokenAmount) Int() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.v)
}

func (a TokenAmount) String() string {
	return a.Int().String()
}

func (a TokenAmount) SerializeInto(buf *serial.Buffer) int {
	return buf.PutULEB128Big(a.v)
}

func ReadTokenAmount(c *serial.Cursor) fn.Option[TokenAmount] {
	return fn.MapOption(func(v *big.Int) TokenAmount { return TokenAmount{v} })(
		serial.ReadValid(c, readAmount, func(v *big.Int) bool {
			return v.Cmp(maxTokenAmount) <= 0
		}),
	)
}

func readAmount(c *serial.Cursor) fn.Option[*big.Int] {
	return c.ULEB128Big(TokenAmountMaxBytes)
}

// Address is the owner of tokens: an account or a contract.
type Address struct {
	Account  fn.Option[types.AccountAddress]
	Contract fn.Option[types.ContractAddress]
}

// AccountAddress wraps an account owner.
func AccountAddress(addr types.AccountAddress) Address {
	return Address{Account: fn.Some(addr)}
}

// ContractAddress wraps a contract owner.
func ContractAddress(addr types.ContractAddress) Address {
	return Address{Contract: fn.Some(addr)}
}

func (a Address) String() string {
	if a.Account.IsSome() {
		return a.Account.UnsafeFromSome().String()
	}
	return a.Contract.UnwrapOr(types.ContractAddress{}).String()
}

func (a Address) SerializeInto(buf *serial.Buffer) int {
	if a.Account.IsSome() {
		addr := a.Account.UnsafeFromSome()
		return buf.PutUint8(0) + addr.SerializeInto(buf)
	}
	return buf.PutUint8(1) + putContract(buf, a.Contract.UnwrapOr(types.ContractAddress{}))
}

func ReadAddress(c *serial.Cursor) fn.Option[Address] {
	mark := c.Offset()
	tag, ok := serial.Get(c.Uint8())
	if !ok {
		return fn.None[Address]()
	}
	switch tag {
	case 0:
		if addr, ok := serial.Get(types.ReadAccountAddress(c)); ok {
			return fn.Some(AccountAddress(addr))
		}
	case 1:
		if addr, ok := serial.Get(readContract(c)); ok {
			return fn.Some(ContractAddress(addr))
		}
	}
	c.Seek(mark)
	return fn.None[Address]()
}

// Receiver is the destination of a transfer. Contracts are notified
// through the named entrypoint.
type Receiver struct {
	Address Address
	Hook    types.EntrypointName
}

// AccountReceiver sends tokens to an account.
func AccountReceiver(addr types.AccountAddress) Receiver {
	return Receiver{Address: AccountAddress(addr)}
}

// ContractReceiver sends tokens to a contract, invoking hook.
func ContractReceiver(addr types.ContractAddress, hook types.EntrypointName) Receiver {
	return Receiver{Address: ContractAddress(addr), Hook: hook}
}

func (r Receiver) SerializeInto(buf *serial.Buffer) int {
	n := r.Address.SerializeInto(buf)
	if r.Address.Contract.IsSome() {
		n += buf.PutStringLE(serial.Width16, string(r.Hook))
	}
	return n
}

func ReadReceiver(c *serial.Cursor) fn.Option[Receiver] {
	mark := c.Offset()
	addr, ok := serial.Get(ReadAddress(c))
	if !ok {
		return fn.None[Receiver]()
	}
	if addr.Account.IsSome() {
		return fn.Some(Receiver{Address: addr})
	}
	hook, ok := serial.Get(c.StringLE(serial.Width16))
	if !ok {
		c.Seek(mark)
		return fn.None[Receiver]()
	}
	return fn.Some(Receiver{addr, types.EntrypointName(hook)})
}

// AdditionalData is passed on to the receive hook of a contract receiver.
type AdditionalData []byte

func (d AdditionalData) SerializeInto(buf *serial.Buffer) int {
	return buf.PutPrefixedBytesLE(serial.Width16, d)
}

func ReadAdditionalData(c *serial.Cursor) fn.Option[AdditionalData] {
	return fn.MapOption(func(b []byte) AdditionalData { return AdditionalData(b) })(
		c.PrefixedBytesLE(serial.Width16),
	)
}

func putContract(buf *serial.Buffer, addr types.ContractAddress) int {
	return buf.PutUint64LE(addr.Index) + buf.PutUint64LE(addr.Subindex)
}

func readContract(c *serial.Cursor) fn.Option[types.ContractAddress] {
	if c.Remaining() < 16 {
		return fn.None[types.ContractAddress]()
	}
	index, _ := serial.Get(c.Uint64LE())
	subindex, _ := serial.Get(c.Uint64LE())
	return fn.Some(types.ContractAddress{Index: index, Subindex: subindex})
}
