package serial

import (
	"encoding/binary"
	"math/big"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Cursor reads values from the front of a byte slice.
//
// Reads are partial: a read that cannot be satisfied returns fn.None and
// leaves the cursor where it was, so that callers can tell a truncated input
// apart from a malformed one and compose decoders freely.
type Cursor struct {
	data   []byte
	offset int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.offset
}

// Seek moves the cursor back to an offset returned by Offset. Composite
// decoders use it to undo partial reads.
func (c *Cursor) Seek(offset int) {
	if offset < 0 || offset > len(c.data) {
		return
	}
	c.offset = offset
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.offset
}

// Empty reports whether all bytes have been consumed.
func (c *Cursor) Empty() bool {
	return c.Remaining() == 0
}

// Rest consumes and returns all remaining bytes.
func (c *Cursor) Rest() []byte {
	rest := c.peek(c.Remaining())
	c.offset = len(c.data)
	return rest
}

// Read consumes exactly n bytes and returns a copy of them.
func (c *Cursor) Read(n int) fn.Option[[]byte] {
	if n < 0 || c.Remaining() < n {
		return fn.None[[]byte]()
	}
	out := c.peek(n)
	c.offset += n
	return fn.Some(out)
}

// ReadInto fills dst completely or consumes nothing.
func (c *Cursor) ReadInto(dst []byte) bool {
	if c.Remaining() < len(dst) {
		return false
	}
	copy(dst, c.data[c.offset:])
	c.offset += len(dst)
	return true
}

func (c *Cursor) peek(n int) []byte {
	out := make([]byte, n)
	copy(out, c.data[c.offset:c.offset+n])
	return out
}

func (c *Cursor) Uint8() fn.Option[uint8] {
	if c.Remaining() < 1 {
		return fn.None[uint8]()
	}
	v := c.data[c.offset]
	c.offset++
	return fn.Some(v)
}

func (c *Cursor) Uint16() fn.Option[uint16] {
	if c.Remaining() < 2 {
		return fn.None[uint16]()
	}
	v := binary.BigEndian.Uint16(c.data[c.offset:])
	c.offset += 2
	return fn.Some(v)
}

func (c *Cursor) Uint32() fn.Option[uint32] {
	if c.Remaining() < 4 {
		return fn.None[uint32]()
	}
	v := binary.BigEndian.Uint32(c.data[c.offset:])
	c.offset += 4
	return fn.Some(v)
}

func (c *Cursor) Uint64() fn.Option[uint64] {
	if c.Remaining() < 8 {
		return fn.None[uint64]()
	}
	v := binary.BigEndian.Uint64(c.data[c.offset:])
	c.offset += 8
	return fn.Some(v)
}

func (c *Cursor) Uint16LE() fn.Option[uint16] {
	if c.Remaining() < 2 {
		return fn.None[uint16]()
	}
	v := binary.LittleEndian.Uint16(c.data[c.offset:])
	c.offset += 2
	return fn.Some(v)
}

func (c *Cursor) Uint32LE() fn.Option[uint32] {
	if c.Remaining() < 4 {
		return fn.None[uint32]()
	}
	v := binary.LittleEndian.Uint32(c.data[c.offset:])
	c.offset += 4
	return fn.Some(v)
}

func (c *Cursor) Uint64LE() fn.Option[uint64] {
	if c.Remaining() < 8 {
		return fn.None[uint64]()
	}
	v := binary.LittleEndian.Uint64(c.data[c.offset:])
	c.offset += 8
	return fn.Some(v)
}

// Bool reads a single byte that must be 0 or 1.
func (c *Cursor) Bool() fn.Option[bool] {
	if c.Remaining() < 1 {
		return fn.None[bool]()
	}
	switch c.data[c.offset] {
	case 0:
		c.offset++
		return fn.Some(false)
	case 1:
		c.offset++
		return fn.Some(true)
	default:
		return fn.None[bool]()
	}
}

// Length reads a big-endian unsigned integer of the given width.
func (c *Cursor) Length(w Width) fn.Option[uint64] {
	switch w {
	case Width8:
		return widen(c.Uint8())
	case Width16:
		return widen(c.Uint16())
	case Width32:
		return widen(c.Uint32())
	default:
		return c.Uint64()
	}
}

// LengthLE reads a little-endian unsigned integer of the given width.
func (c *Cursor) LengthLE(w Width) fn.Option[uint64] {
	switch w {
	case Width8:
		return widen(c.Uint8())
	case Width16:
		return widen(c.Uint16LE())
	case Width32:
		return widen(c.Uint32LE())
	default:
		return c.Uint64LE()
	}
}

// PrefixedBytes reads a big-endian length of the given width followed by
// that many bytes. Nothing is consumed when fewer bytes remain than the
// prefix declares.
func (c *Cursor) PrefixedBytes(w Width) fn.Option[[]byte] {
	return c.prefixed(func() fn.Option[uint64] { return c.Length(w) })
}

// PrefixedBytesLE is PrefixedBytes with a little-endian prefix.
func (c *Cursor) PrefixedBytesLE(w Width) fn.Option[[]byte] {
	return c.prefixed(func() fn.Option[uint64] { return c.LengthLE(w) })
}

func (c *Cursor) prefixed(length func() fn.Option[uint64]) fn.Option[[]byte] {
	mark := c.offset
	n, ok := Get(length())
	if !ok {
		return fn.None[[]byte]()
	}
	if n > uint64(c.Remaining()) {
		c.offset = mark
		return fn.None[[]byte]()
	}
	return c.Read(int(n))
}

// String reads length-prefixed UTF-8 bytes.
func (c *Cursor) String(w Width) fn.Option[string] {
	return fn.MapOption(func(b []byte) string {
		return string(b)
	})(c.PrefixedBytes(w))
}

// StringLE reads a string with a little-endian length prefix.
func (c *Cursor) StringLE(w Width) fn.Option[string] {
	return fn.MapOption(func(b []byte) string {
		return string(b)
	})(c.PrefixedBytesLE(w))
}

// ULEB128 reads an unsigned LEB128 value that fits in 64 bits.
func (c *Cursor) ULEB128() fn.Option[uint64] {
	v, n := DecodeULEB128(c.data[c.offset:])
	if n == 0 {
		return fn.None[uint64]()
	}
	c.offset += n
	return fn.Some(v)
}

// ULEB128Big reads an unsigned LEB128 value spanning at most maxBytes.
func (c *Cursor) ULEB128Big(maxBytes int) fn.Option[*big.Int] {
	v, n := DecodeULEB128Big(c.data[c.offset:], maxBytes)
	if n == 0 {
		return fn.None[*big.Int]()
	}
	c.offset += n
	return fn.Some(v)
}

func widen[T uint8 | uint16 | uint32](o fn.Option[T]) fn.Option[uint64] {
	return fn.MapOption(func(v T) uint64 {
		return uint64(v)
	})(o)
}
