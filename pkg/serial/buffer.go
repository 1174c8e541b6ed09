package serial

import (
	"encoding/binary"
	"math/big"
)

// Width is the byte width of an unsigned integer used as a length or count
// prefix.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// Max returns the largest value representable with the width.
func (w Width) Max() uint64 {
	switch w {
	case Width8:
		return 1<<8 - 1
	case Width16:
		return 1<<16 - 1
	case Width32:
		return 1<<32 - 1
	default:
		return 1<<64 - 1
	}
}

// Buffer is an append-only byte sink. Every Put method returns the number of
// bytes it wrote.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Bytes returns the bytes written so far.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

func (b *Buffer) PutUint8(v uint8) int {
	b.data = append(b.data, v)
	return 1
}

func (b *Buffer) PutUint16(v uint16) int {
	b.data = binary.BigEndian.AppendUint16(b.data, v)
	return 2
}

func (b *Buffer) PutUint32(v uint32) int {
	b.data = binary.BigEndian.AppendUint32(b.data, v)
	return 4
}

func (b *Buffer) PutUint64(v uint64) int {
	b.data = binary.BigEndian.AppendUint64(b.data, v)
	return 8
}

func (b *Buffer) PutUint16LE(v uint16) int {
	b.data = binary.LittleEndian.AppendUint16(b.data, v)
	return 2
}

func (b *Buffer) PutUint32LE(v uint32) int {
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
	return 4
}

func (b *Buffer) PutUint64LE(v uint64) int {
	b.data = binary.LittleEndian.AppendUint64(b.data, v)
	return 8
}

// PutBool writes 1 for true and 0 for false.
func (b *Buffer) PutBool(v bool) int {
	if v {
		return b.PutUint8(1)
	}
	return b.PutUint8(0)
}

// PutBytes writes p as is, without any prefix.
func (b *Buffer) PutBytes(p []byte) int {
	b.data = append(b.data, p...)
	return len(p)
}

// PutLength writes n as a big-endian unsigned integer of the given width.
// Values exceeding the width are truncated, callers validate sizes at
// construction time.
func (b *Buffer) PutLength(w Width, n uint64) int {
	switch w {
	case Width8:
		return b.PutUint8(uint8(n))
	case Width16:
		return b.PutUint16(uint16(n))
	case Width32:
		return b.PutUint32(uint32(n))
	default:
		return b.PutUint64(n)
	}
}

// PutLengthLE is the little-endian counterpart of PutLength.
func (b *Buffer) PutLengthLE(w Width, n uint64) int {
	switch w {
	case Width8:
		return b.PutUint8(uint8(n))
	case Width16:
		return b.PutUint16LE(uint16(n))
	case Width32:
		return b.PutUint32LE(uint32(n))
	default:
		return b.PutUint64LE(n)
	}
}

// PutPrefixedBytes writes len(p) with the given width followed by p.
func (b *Buffer) PutPrefixedBytes(w Width, p []byte) int {
	return b.PutLength(w, uint64(len(p))) + b.PutBytes(p)
}

// PutPrefixedBytesLE writes len(p) as a little-endian prefix followed by p.
func (b *Buffer) PutPrefixedBytesLE(w Width, p []byte) int {
	return b.PutLengthLE(w, uint64(len(p))) + b.PutBytes(p)
}

// PutString writes s as length-prefixed UTF-8 bytes.
func (b *Buffer) PutString(w Width, s string) int {
	return b.PutPrefixedBytes(w, []byte(s))
}

// PutStringLE writes s with a little-endian length prefix.
func (b *Buffer) PutStringLE(w Width, s string) int {
	return b.PutPrefixedBytesLE(w, []byte(s))
}

// PutULEB128 writes v as unsigned LEB128.
func (b *Buffer) PutULEB128(v uint64) int {
	enc := AppendULEB128(nil, v)
	return b.PutBytes(enc)
}

// PutULEB128Big writes a non-negative big integer as unsigned LEB128.
func (b *Buffer) PutULEB128Big(v *big.Int) int {
	enc := AppendULEB128Big(nil, v)
	return b.PutBytes(enc)
}
